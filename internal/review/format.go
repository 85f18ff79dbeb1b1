// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/litreview/pkg/types"
)

// FormatTable writes records as a human-readable table to w.
func FormatTable(w io.Writer, records []types.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No records found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-55s  %-20s  %-4s  %-12s  %s\n",
		"#", "Title", "Authors", "Year", "Document", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, r := range records {
		title := r.Title
		if len(title) > 55 {
			title = title[:52] + "..."
		}
		fmt.Fprintf(w, "%-4d  %-55s  %-20s  %-4s  %-12s  %s\n",
			i+1, title, formatAuthors(r.Authors), r.Year, r.DocumentStatus, r.Source)
	}
}

// FormatJSON writes records as indented JSON to w.
func FormatJSON(w io.Writer, records []types.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
