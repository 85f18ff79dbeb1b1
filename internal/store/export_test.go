// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litreview/pkg/types"
)

func TestExportCSV(t *testing.T) {
	records := []types.Record{
		{
			Title: "Scanned Paper", AuthorsDisplay: "Ada Lovelace", Year: "2023",
			DOI: "10.1/a", Source: "arXiv", AbstractHit: true,
			DocumentStatus: types.DocumentDownloaded,
			KeywordCounts:  map[string]int{"privacy": 3, "audit": 0},
		},
		{
			Title: "Unscanned Paper", Year: "2022", DOI: "10.1/b",
			Source:         "IEEE Xplore",
			DocumentStatus: types.DocumentUnavailable,
		},
	}

	var buf strings.Builder
	require.NoError(t, ExportCSV(&buf, records))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	header := rows[0]
	// Keyword columns follow the fixed ones, sorted by keyword.
	assert.Equal(t, append(append([]string{}, baseColumns...), "audit_count", "privacy_count"), header)

	col := func(row []string, name string) string {
		for i, h := range header {
			if h == name {
				return row[i]
			}
		}
		t.Fatalf("no column %q", name)
		return ""
	}

	assert.Equal(t, "Scanned Paper", col(rows[1], "title"))
	assert.Equal(t, "true", col(rows[1], "abstract_hit"))
	assert.Equal(t, "3", col(rows[1], "privacy_count"))
	assert.Equal(t, "0", col(rows[1], "audit_count"))

	// Records never scanned leave keyword cells empty rather than zero.
	assert.Equal(t, "", col(rows[2], "privacy_count"))
	assert.Equal(t, "false", col(rows[2], "abstract_hit"))
}

func TestExportYAML(t *testing.T) {
	records := []types.Record{
		{
			Title: "Scanned Paper", Year: "2023", DOI: "10.1/a",
			PrimaryKeywords: []string{"privacy"},
			KeywordCounts:   map[string]int{"privacy": 3},
			KeywordSnippets: map[string][]string{"privacy": {"differential privacy budget"}},
		},
	}

	var buf strings.Builder
	require.NoError(t, ExportYAML(&buf, records))

	var out []types.Record
	require.NoError(t, yaml.Unmarshal([]byte(buf.String()), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "Scanned Paper", out[0].Title)
	// YAML keeps the nested structures the flat CSV drops.
	assert.Equal(t, []string{"differential privacy budget"}, out[0].KeywordSnippets["privacy"])
}

func TestExportCSVNoRecords(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, ExportCSV(&buf, nil))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, baseColumns, rows[0])
}
