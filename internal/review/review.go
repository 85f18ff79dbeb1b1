// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package review orchestrates the aggregation pipeline: catalog fetches,
// deduplication, document retrieval, and keyword scanning. It is the
// library boundary the routing layer calls.
package review

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pdiddy/litreview/internal/catalog"
	"github.com/pdiddy/litreview/internal/retrieve"
	"github.com/pdiddy/litreview/internal/scan"
	"github.com/pdiddy/litreview/pkg/types"
)

const defaultRetrievalTimeout = 30 * time.Second

// Pipeline wires the stages behind one entry point. All stages run
// sequentially; per-source and per-record failures are recovered inside
// their stage, so Run always returns a (possibly empty) record slice.
type Pipeline struct {
	Catalog *catalog.Catalog
	Config  types.PipelineConfig

	client *http.Client
	log    *slog.Logger
}

// New builds a pipeline over the given catalog. The retrieval client gets
// its own bounded timeout; catalog adapters carry theirs through the
// shared client inside Catalog.
func New(cat *catalog.Catalog, cfg types.PipelineConfig, log *slog.Logger) *Pipeline {
	timeout := cfg.Retrieval.Timeout
	if timeout <= 0 {
		timeout = defaultRetrievalTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		Catalog: cat,
		Config:  cfg,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Run executes the full pipeline for a query against the selected sources:
// fetch and normalize per source, concatenate, deduplicate, retrieve
// documents, scan for query-derived keywords. Progress lines go to w.
func (p *Pipeline) Run(ctx context.Context, query string, sources []string, limit int, fetchAll bool, w io.Writer) []types.Record {
	var all []types.Record
	for _, tag := range sources {
		records := p.Catalog.FetchFromSource(ctx, tag, query, limit, fetchAll)
		p.log.Info("source fetched", "source", tag, "records", len(records))
		all = append(all, records...)
	}

	unique := catalog.Deduplicate(all)
	p.log.Info("deduplicated", "before", len(all), "after", len(unique), "removed", len(all)-len(unique))

	unique = retrieve.ResolveAll(p.client, unique, p.Config.Retrieval, w)
	return p.ScanDocuments(unique, query, w)
}

// ScanDocuments assigns the query-derived keyword sequence to every record
// and scans each downloaded document, filling the per-keyword presence,
// count, and snippet fields. Records without a downloaded document keep
// their fresh empty containers.
func (p *Pipeline) ScanDocuments(records []types.Record, keywordSource string, w io.Writer) []types.Record {
	keywords := scan.DeriveKeywords(keywordSource)

	out := make([]types.Record, len(records))
	for i, rec := range records {
		rec.PrimaryKeywords = append([]string{}, keywords...)

		if rec.DocumentStatus == types.DocumentDownloaded && rec.DocumentPath != "" {
			result := scan.ScanFile(rec.DocumentPath, keywords, p.Config.Scan, w)
			rec.KeywordPresence = result.Presence
			rec.KeywordCounts = result.Counts
			rec.KeywordSnippets = result.Snippets
		}
		out[i] = rec
	}
	return out
}

// RetrieveDocuments exposes the retrieval stage on its own for callers
// that fetch and download in separate steps.
func (p *Pipeline) RetrieveDocuments(records []types.Record, w io.Writer) []types.Record {
	return retrieve.ResolveAll(p.client, records, p.Config.Retrieval, w)
}
