// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litreview/pkg/types"
)

// baseColumns is the fixed part of the flat review table.
var baseColumns = []string{
	"title", "authors", "venue", "year", "doi", "source", "work_type",
	"abstract_hit", "document_status", "document_path", "last_updated",
}

// ExportCSV writes records as a flat review table: the fixed columns plus
// one "<keyword>_count" column per keyword seen anywhere in the batch.
// Records missing a keyword leave the cell empty.
func ExportCSV(w io.Writer, records []types.Record) error {
	keywords := collectKeywords(records)

	header := append(append([]string{}, baseColumns...), keywordColumns(keywords)...)
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.Title, r.AuthorsDisplay, r.Venue, r.Year, r.DOI, r.Source,
			r.WorkType, strconv.FormatBool(r.AbstractHit),
			string(r.DocumentStatus), r.DocumentPath, r.LastUpdated,
		}
		for _, kw := range keywords {
			if count, ok := r.KeywordCounts[kw]; ok {
				row = append(row, strconv.Itoa(count))
			} else {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportYAML writes records to w as a YAML document list, preserving the
// nested keyword structures the flat CSV table cannot carry.
func ExportYAML(w io.Writer, records []types.Record) error {
	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing YAML export: %w", err)
	}
	return nil
}

func collectKeywords(records []types.Record) []string {
	seen := map[string]struct{}{}
	for _, r := range records {
		for kw := range r.KeywordCounts {
			seen[kw] = struct{}{}
		}
	}
	keywords := make([]string, 0, len(seen))
	for kw := range seen {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)
	return keywords
}

func keywordColumns(keywords []string) []string {
	cols := make([]string, len(keywords))
	for i, kw := range keywords {
		cols[i] = kw + "_count"
	}
	return cols
}
