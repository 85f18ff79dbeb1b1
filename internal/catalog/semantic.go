// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/litreview/internal/httputil"
	"github.com/pdiddy/litreview/pkg/types"
)

// semanticAPIBase is the Semantic Scholar bulk search endpoint. Declared as
// a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search/bulk"

const semanticFields = "title,url,authors,abstract,year,venue,openAccessPdf,publicationTypes"

// semanticHardCap bounds FetchAll pagination. The bulk API pages by
// continuation token with no total guarantee, so exhaustion is approximated.
const semanticHardCap = 1000

// SemanticScholarSource queries the Semantic Scholar academic graph.
type SemanticScholarSource struct {
	Client *http.Client
	Config types.CatalogConfig
}

// Name returns the source tag.
func (s *SemanticScholarSource) Name() string { return TagSemantic }

// Fetch queries the bulk search endpoint, following continuation tokens
// until the limit is reached (or the hard cap with FetchAll). Records are
// keyed on the Semantic Scholar paper ID; the open-access PDF URL, when
// present, becomes the document URL. Partial results survive a failing page.
func (s *SemanticScholarSource) Fetch(ctx context.Context, query string, opts FetchOptions) ([]types.Record, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 5
	}
	if opts.FetchAll {
		limit = semanticHardCap
	}

	var records []types.Record
	token := ""
	for len(records) < limit {
		page, next, err := s.fetchPage(ctx, query, token)
		if err != nil {
			return records, err
		}

		for _, paper := range page {
			records = append(records, semanticRecord(paper, query))
			if len(records) >= limit {
				break
			}
		}

		if next == "" {
			break
		}
		token = next
	}
	return records, nil
}

func (s *SemanticScholarSource) fetchPage(ctx context.Context, query, token string) ([]semanticPaper, string, error) {
	params := url.Values{
		"query":  {fmt.Sprintf("%q", query)},
		"fields": {semanticFields},
	}
	if s.Config.YearFilter != "" {
		params.Set("year", s.Config.YearFilter)
	}
	if token != "" {
		params.Set("token", token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.Config.UserAgent)
	if s.Config.SemanticScholarAPIKey != "" {
		req.Header.Set("x-api-key", s.Config.SemanticScholarAPIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
	if err != nil {
		return nil, "", fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, "", fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}
	return sr.Data, sr.Token, nil
}

func semanticRecord(paper semanticPaper, query string) types.Record {
	var authors []string
	for _, a := range paper.Authors {
		authors = append(authors, a.Name)
	}

	docURL := ""
	if paper.OpenAccessPDF != nil {
		docURL = paper.OpenAccessPDF.URL
	}

	workType := ""
	if len(paper.PublicationTypes) > 0 {
		workType = paper.PublicationTypes[0]
	}

	year := ""
	if paper.Year > 0 {
		year = strconv.Itoa(paper.Year)
	}

	return NewRecord(Fields{
		Identifier:  paper.PaperID,
		Title:       paper.Title,
		Authors:     authors,
		Venue:       paper.Venue,
		Year:        year,
		Source:      "Semantic Scholar",
		Abstract:    paper.Abstract,
		DocumentURL: docURL,
		WorkType:    workType,
		LastUpdated: year,
		Query:       query,
	})
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total int             `json:"total"`
	Token string          `json:"token"`
	Data  []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID          string              `json:"paperId"`
	Title            string              `json:"title"`
	Abstract         string              `json:"abstract"`
	Venue            string              `json:"venue"`
	Year             int                 `json:"year"`
	PublicationTypes []string            `json:"publicationTypes"`
	Authors          []semanticAuthor    `json:"authors"`
	OpenAccessPDF    *semanticOpenAccess `json:"openAccessPdf"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticOpenAccess struct {
	URL string `json:"url"`
}
