// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog queries literature catalogs and returns unified,
// deduplicated records. Each catalog (arXiv, Semantic Scholar, IEEE Xplore,
// ACM via CrossRef, Google Scholar via scraper) implements the Source
// interface per the Strategy pattern.
//
//	docs/ARCHITECTURE § Catalog Sources.
package catalog

import (
	"context"
	"log/slog"
	"net/http"
	"sort"

	"github.com/pdiddy/litreview/pkg/types"
)

// Source tags accepted by FetchFromSource.
const (
	TagArxiv    = "arxiv"
	TagSemantic = "semantic"
	TagIEEE     = "ieee"
	TagACM      = "acm"
	TagGoogle   = "google"
)

// FetchOptions bound a single catalog fetch.
type FetchOptions struct {
	// Limit caps the result count when FetchAll is false.
	Limit int

	// FetchAll pages through the upstream API until exhaustion or the
	// source's hard cap, ignoring Limit. Some sources approximate this
	// with a fixed cap; see per-source docs.
	FetchAll bool
}

// Source searches a single literature catalog.
type Source interface {
	Name() string
	Fetch(ctx context.Context, query string, opts FetchOptions) ([]types.Record, error)
}

// Catalog holds the configured sources and dispatches fetches to them.
type Catalog struct {
	sources map[string]Source
	log     *slog.Logger
}

// New wires the five production sources. The HTTP client is shared; the
// scraper tool drives the Google Scholar source and may be nil, in which
// case that source returns empty results.
func New(cfg types.CatalogConfig, client *http.Client, tool ScraperTool, log *slog.Logger) *Catalog {
	if log == nil {
		log = slog.Default()
	}
	crossref := &CrossRefClient{Client: client, Config: cfg}
	return &Catalog{
		log: log,
		sources: map[string]Source{
			TagArxiv:    &ArxivSource{Client: client, Config: cfg},
			TagSemantic: &SemanticScholarSource{Client: client, Config: cfg},
			TagIEEE:     &IEEESource{Client: client, Config: cfg, CrossRef: crossref},
			TagACM:      &ACMSource{CrossRef: crossref},
			TagGoogle:   &ScholarSource{Tool: tool, CrossRef: crossref, Config: cfg},
		},
	}
}

// Register replaces or adds a source under tag. Used by tests and by callers
// with custom catalogs.
func (c *Catalog) Register(tag string, s Source) {
	c.sources[tag] = s
}

// Tags returns the registered source tags in sorted order.
func (c *Catalog) Tags() []string {
	tags := make([]string, 0, len(c.sources))
	for tag := range c.sources {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// FetchFromSource fetches and normalizes records from one catalog. Failures
// never propagate: an unknown tag, a network error, or a malformed response
// all degrade to the records accumulated so far (possibly none), with a
// warning logged, so one failing source cannot abort a batch.
func (c *Catalog) FetchFromSource(ctx context.Context, tag, query string, limit int, fetchAll bool) []types.Record {
	src, ok := c.sources[tag]
	if !ok {
		c.log.Warn("unknown catalog source", "tag", tag)
		return nil
	}

	records, err := src.Fetch(ctx, query, FetchOptions{Limit: limit, FetchAll: fetchAll})
	if err != nil {
		c.log.Warn("catalog fetch failed", "source", src.Name(), "error", err)
	}
	return records
}
