// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/litreview/pkg/types"
)

// ieeeAPIBase is the IEEE Xplore search endpoint. Declared as a var so
// tests can substitute an httptest server.
var ieeeAPIBase = "https://ieeexploreapi.ieee.org/api/v1/search/articles"

// ieeeRowsCap bounds FetchAll; the metered API makes exhaustive paging
// impractical, so the cap is the documented approximation.
const ieeeRowsCap = 50

// IEEESource queries the IEEE Xplore API. When the API key is missing or
// rejected it falls back to a CrossRef search filtered by the IEEE
// publisher member, so a revoked key degrades instead of failing.
type IEEESource struct {
	Client   *http.Client
	Config   types.CatalogConfig
	CrossRef *CrossRefClient
}

// Name returns the source tag.
func (s *IEEESource) Name() string { return TagIEEE }

// Fetch queries IEEE Xplore, routing to the CrossRef fallback on a missing
// key or an access rejection (HTTP 401/403).
func (s *IEEESource) Fetch(ctx context.Context, query string, opts FetchOptions) ([]types.Record, error) {
	if s.Config.IEEEAPIKey == "" {
		return s.fallback(ctx, query, opts)
	}

	records, status, err := s.fetchXplore(ctx, query, opts)
	if err != nil {
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			return s.fallback(ctx, query, opts)
		}
		return records, err
	}
	return records, nil
}

func (s *IEEESource) fallback(ctx context.Context, query string, opts FetchOptions) ([]types.Record, error) {
	return s.CrossRef.SearchByMember(ctx, query, crossrefMemberIEEE, "IEEE Xplore", opts)
}

// fetchXplore runs the primary keyed API call. The HTTP status is returned
// alongside the error so Fetch can distinguish access rejection from other
// failures.
func (s *IEEESource) fetchXplore(ctx context.Context, query string, opts FetchOptions) ([]types.Record, int, error) {
	rows := opts.Limit
	if rows <= 0 {
		rows = 5
	}
	if opts.FetchAll || rows > ieeeRowsCap {
		rows = ieeeRowsCap
	}

	params := url.Values{
		"apikey":      {s.Config.IEEEAPIKey},
		"querytext":   {query},
		"max_records": {strconv.Itoa(rows)},
		"format":      {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ieeeAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.Config.UserAgent)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("IEEE Xplore API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("IEEE Xplore API returned HTTP %d", resp.StatusCode)
	}

	var ir ieeeResponse
	if err := json.NewDecoder(resp.Body).Decode(&ir); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("parsing IEEE Xplore response: %w", err)
	}

	records := make([]types.Record, 0, len(ir.Articles))
	for _, a := range ir.Articles {
		records = append(records, ieeeRecord(a, query))
	}
	return records, resp.StatusCode, nil
}

func ieeeRecord(a ieeeArticle, query string) types.Record {
	var authors []string
	for _, au := range a.Authors.Authors {
		authors = append(authors, au.FullName)
	}

	identifier := a.ArticleNumber
	if identifier == "" {
		identifier = a.DOI
	}

	year := ""
	if a.PublicationYear != nil {
		year = fmt.Sprintf("%v", a.PublicationYear)
	}

	return NewRecord(Fields{
		Identifier:  identifier,
		Title:       a.Title,
		Authors:     authors,
		Venue:       a.PublicationTitle,
		Year:        year,
		DOI:         a.DOI,
		Source:      "IEEE Xplore",
		Abstract:    a.Abstract,
		DocumentURL: a.PDFURL,
		WorkType:    a.ContentType,
		Query:       query,
	})
}

// IEEE Xplore API JSON structures. publication_year arrives as a string or
// a number depending on the record, so it is decoded loosely.
type ieeeResponse struct {
	Articles []ieeeArticle `json:"articles"`
}

type ieeeArticle struct {
	ArticleNumber    string      `json:"article_number"`
	Title            string      `json:"title"`
	Abstract         string      `json:"abstract"`
	DOI              string      `json:"doi"`
	PDFURL           string      `json:"pdf_url"`
	PublicationTitle string      `json:"publication_title"`
	PublicationYear  interface{} `json:"publication_year"`
	ContentType      string      `json:"content_type"`
	Authors          ieeeAuthors `json:"authors"`
}

type ieeeAuthors struct {
	Authors []ieeeAuthor `json:"authors"`
}

type ieeeAuthor struct {
	FullName string `json:"full_name"`
}
