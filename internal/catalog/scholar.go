// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pdiddy/litreview/pkg/types"
)

// scholarDefaultTimeout bounds the wait for the scraper's result file.
const scholarDefaultTimeout = 120 * time.Second

// ScholarSource fetches Google Scholar results through the external
// scraping tool. It is the only source with a subprocess dependency: the
// tool is run, the output directory is polled for result.csv, and each CSV
// row carrying a DOI is enriched through the CrossRef lookup before falling
// back to the raw row.
type ScholarSource struct {
	Tool     ScraperTool
	CrossRef *CrossRefClient
	Config   types.CatalogConfig
}

// Name returns the source tag.
func (s *ScholarSource) Name() string { return TagGoogle }

// Fetch runs the scraper and normalizes its CSV output. Tool failure or a
// missing result file aborts this source only, returning no records; an
// enrichment failure falls back to the unenriched CSV row and never drops
// the record.
func (s *ScholarSource) Fetch(ctx context.Context, query string, opts FetchOptions) ([]types.Record, error) {
	if s.Tool == nil {
		return nil, fmt.Errorf("no scraper tool configured")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	pages := s.Config.ScholarPages
	if pages <= 0 {
		pages = 1
	}
	timeout := s.Config.ScraperTimeout
	if timeout <= 0 {
		timeout = scholarDefaultTimeout
	}
	outDir := s.Config.ScraperDir
	if outDir == "" {
		outDir = "downloads"
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating scraper directory: %w", err)
	}

	if err := s.Tool.Run(ctx, strings.TrimSpace(query), pages, limit, outDir); err != nil {
		return nil, err
	}

	csvPath, err := waitForResult(ctx, outDir, timeout)
	if err != nil {
		return nil, err
	}

	rows, err := readResultCSV(csvPath)
	if err != nil {
		return nil, err
	}

	var records []types.Record
	for _, row := range rows {
		records = append(records, s.normalizeRow(ctx, row, query))
	}
	return records, nil
}

// normalizeRow enriches a CSV row through CrossRef when it carries a DOI,
// keeping the raw row as the fallback shape.
func (s *ScholarSource) normalizeRow(ctx context.Context, row map[string]string, query string) types.Record {
	doi := row["doi"]
	if doi == "" {
		doi = row["DOI"]
	}

	if doi != "" && s.CrossRef != nil {
		if rec, err := s.CrossRef.LookupDOI(ctx, doi, query, "Google Scholar"); err == nil {
			return rec
		}
	}

	identifier := doi
	if identifier == "" {
		identifier = row["ID"]
	}
	venue := row["journal"]
	if venue == "" {
		venue = "Google Scholar"
	}

	return NewRecord(Fields{
		Identifier:  identifier,
		Title:       row["title"],
		AuthorLine:  row["author"],
		Venue:       venue,
		Year:        row["year"],
		DOI:         doi,
		Source:      "Google Scholar (CSV)",
		Abstract:    row["abstract"],
		DocumentURL: row["pdf_url"],
		LastUpdated: row["year"],
		Query:       query,
	})
}

// readResultCSV parses the tool's result file into header-keyed rows.
// Short rows are tolerated; missing columns read as empty strings.
func readResultCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	var rows []map[string]string
	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, fmt.Errorf("reading CSV row: %w", err)
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(fields) {
				row[strings.TrimSpace(name)] = strings.TrimSpace(fields[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
