// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/litreview/pkg/types"
)

const arxivFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v1</id>
    <title>Edge Intrusion Detection</title>
    <summary>A study of attack detection on healthcare devices.</summary>
    <published>2023-01-17T12:00:00Z</published>
    <updated>2023-02-01T09:00:00Z</updated>
    <author><name>Ada Lovelace</name></author>
    <author><name>Alan Turing</name></author>
    <link href="http://arxiv.org/abs/2301.07041v1" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/2301.07041v1" rel="related" type="application/pdf"/>
    <arxiv:primary_category term="cs.CR"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2302.00001v2</id>
    <title>Another Paper</title>
    <summary>Unrelated summary.</summary>
    <published>2023-02-01T00:00:00Z</published>
    <updated>2023-02-02T00:00:00Z</updated>
    <author><name>Grace Hopper</name></author>
  </entry>
</feed>`

func testCatalogCfg() types.CatalogConfig {
	return types.CatalogConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "test/0.1"},
	}
}

func TestArxivFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("search_query"); got != "healthcare device" {
			t.Errorf("search_query = %q", got)
		}
		fmt.Fprint(w, arxivFeedXML)
	}))
	defer ts.Close()
	orig := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = orig }()

	src := &ArxivSource{Client: ts.Client(), Config: testCatalogCfg()}
	records, err := src.Fetch(context.Background(), "healthcare device", FetchOptions{Limit: 5})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}

	r := records[0]
	if r.Title != "Edge Intrusion Detection" {
		t.Errorf("Title = %q", r.Title)
	}
	if r.DocumentURL != "http://arxiv.org/pdf/2301.07041v1" {
		t.Errorf("DocumentURL = %q, want the declared pdf link", r.DocumentURL)
	}
	if r.Year != "2023" {
		t.Errorf("Year = %q, want 2023", r.Year)
	}
	if r.WorkType != "cs.CR" {
		t.Errorf("WorkType = %q, want cs.CR", r.WorkType)
	}
	if r.AuthorsDisplay != "Ada Lovelace, Alan Turing" {
		t.Errorf("AuthorsDisplay = %q", r.AuthorsDisplay)
	}
	if r.LastUpdated != "2023-02-01T09:00:00Z" {
		t.Errorf("LastUpdated = %q", r.LastUpdated)
	}
	if r.DocumentStatus != types.DocumentUnresolved {
		t.Errorf("DocumentStatus = %q, want unresolved", r.DocumentStatus)
	}

	// Entry without a declared pdf link keeps the abs URL for the
	// retriever's rewrite.
	if records[1].DocumentURL != "http://arxiv.org/abs/2302.00001v2" {
		t.Errorf("fallback DocumentURL = %q", records[1].DocumentURL)
	}
}

func TestArxivFetchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()
	orig := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = orig }()

	src := &ArxivSource{Client: ts.Client(), Config: testCatalogCfg()}
	records, err := src.Fetch(context.Background(), "q", FetchOptions{Limit: 5})
	if err == nil {
		t.Error("want error on HTTP 503")
	}
	if len(records) != 0 {
		t.Errorf("len = %d, want 0", len(records))
	}
}

func TestArxivFetchAllPages(t *testing.T) {
	var starts []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		starts = append(starts, r.URL.Query().Get("start"))
		if r.URL.Query().Get("start") == "0" {
			fmt.Fprint(w, arxivFeedXML)
			return
		}
		// Second page is empty: pagination stops.
		fmt.Fprint(w, `<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom"></feed>`)
	}))
	defer ts.Close()
	orig := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = orig }()

	src := &ArxivSource{Client: ts.Client(), Config: testCatalogCfg()}
	records, err := src.Fetch(context.Background(), "q", FetchOptions{Limit: 1, FetchAll: true})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("len = %d, want 2 (FetchAll ignores Limit)", len(records))
	}
	if len(starts) != 1 {
		// Short first page already signals exhaustion.
		t.Errorf("pages fetched = %d, want 1", len(starts))
	}
}
