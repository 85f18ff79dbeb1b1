// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/litreview/pkg/types"
)

// arxivAPIBase is the arXiv query endpoint. Declared as a var so tests can
// substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

const (
	arxivPageSize = 100
	arxivHardCap  = 300
)

// ArxivSource queries the arXiv Atom API.
type ArxivSource struct {
	Client *http.Client
	Config types.CatalogConfig
}

// Name returns the source tag.
func (s *ArxivSource) Name() string { return TagArxiv }

// Fetch queries arXiv and maps each Atom entry into a Record. With FetchAll
// it pages in arxivPageSize steps until an empty page or arxivHardCap.
// Partial results accumulated before a failing page are returned alongside
// the error.
func (s *ArxivSource) Fetch(ctx context.Context, query string, opts FetchOptions) ([]types.Record, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 5
	}

	var records []types.Record
	start := 0
	for {
		pageSize := limit
		if opts.FetchAll {
			pageSize = arxivPageSize
		}

		entries, err := s.fetchPage(ctx, query, start, pageSize)
		if err != nil {
			return records, err
		}
		for _, entry := range entries {
			records = append(records, arxivRecord(entry, query))
		}

		if !opts.FetchAll || len(entries) < pageSize || len(records) >= arxivHardCap {
			return records, nil
		}
		start += pageSize
	}
}

func (s *ArxivSource) fetchPage(ctx context.Context, query string, start, max int) ([]arxivEntry, error) {
	params := url.Values{
		"search_query": {query},
		"start":        {fmt.Sprintf("%d", start)},
		"max_results":  {fmt.Sprintf("%d", max)},
	}
	reqURL := arxivAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.Config.UserAgent)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}
	return feed.Entries, nil
}

// arxivRecord maps one Atom entry to the canonical shape. The document URL
// prefers the feed's declared PDF link element; the abs URL is kept as a
// fallback for the retriever's rewrite rule.
func arxivRecord(entry arxivEntry, query string) types.Record {
	var authors []string
	for _, a := range entry.Authors {
		authors = append(authors, strings.TrimSpace(a.Name))
	}

	docURL := ""
	for _, l := range entry.Links {
		if l.Title == "pdf" || strings.Contains(l.Type, "pdf") {
			docURL = l.Href
			break
		}
	}
	if docURL == "" {
		docURL = entry.ID
	}

	year := entry.Published
	if len(year) > 4 {
		year = year[:4]
	}

	return NewRecord(Fields{
		Identifier:  entry.ID,
		Title:       entry.Title,
		Authors:     authors,
		Venue:       "arXiv",
		Year:        year,
		DOI:         entry.DOI,
		Source:      "arXiv",
		Abstract:    entry.Summary,
		DocumentURL: docURL,
		WorkType:    entry.PrimaryCategory.Term,
		LastUpdated: entry.Updated,
		Query:       query,
	})
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID              string        `xml:"id"`
	Title           string        `xml:"title"`
	Summary         string        `xml:"summary"`
	Published       string        `xml:"published"`
	Updated         string        `xml:"updated"`
	DOI             string        `xml:"doi"`
	Authors         []arxivAuthor `xml:"author"`
	Links           []arxivLink   `xml:"link"`
	PrimaryCategory arxivCategory `xml:"primary_category"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}
