// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan extracts text from retrieved documents and counts keyword
// occurrences with contextual snippets.
package scan

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/litreview/pkg/types"
)

const (
	defaultWindow      = 40
	defaultMaxSnippets = 5
)

// Result holds the per-keyword outcome of one document scan. Counts[k] > 0
// exactly when Presence[k] is true; Snippets carries entries only for
// keywords with at least one match.
type Result struct {
	Presence map[string]bool
	Counts   map[string]int
	Snippets map[string][]string
}

func emptyResult(keywords []string) Result {
	// Fresh containers per call; results are merged into records that
	// outlive the scanner.
	return Result{
		Presence: make(map[string]bool, len(keywords)),
		Counts:   make(map[string]int, len(keywords)),
		Snippets: make(map[string][]string),
	}
}

// DeriveKeywords splits a query string into the working keyword sequence:
// the literal tokens "AND" and "and" become separators, then whitespace
// splits, trims, and drops empties. "healthcare AND device" yields
// ["healthcare", "device"].
func DeriveKeywords(query string) []string {
	cleaned := strings.ReplaceAll(query, "AND", " ")
	cleaned = strings.ReplaceAll(cleaned, "and", " ")

	var keywords []string
	for _, kw := range strings.Fields(cleaned) {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// ScanFile extracts text from the document at path and searches it for
// each keyword. An empty path or one without the document extension
// returns empty structures with no error; extraction failures are reported
// but still yield whatever was computed (empty structures at worst).
func ScanFile(path string, keywords []string, cfg types.ScanConfig, w io.Writer) Result {
	if path == "" || !strings.HasSuffix(path, ".pdf") {
		return emptyResult(keywords)
	}

	text, err := extractText(path)
	if err != nil {
		fmt.Fprintf(w, "failed to scan %s: %v\n", path, err)
		return emptyResult(keywords)
	}
	return SearchText(text, keywords, cfg)
}

// SearchText performs the case-insensitive exact-substring search. Matches
// are counted non-overlapping; up to MaxSnippets context windows of
// SnippetWindow characters on each side are captured per keyword, with
// newlines collapsed to spaces.
func SearchText(text string, keywords []string, cfg types.ScanConfig) Result {
	window := cfg.SnippetWindow
	if window <= 0 {
		window = defaultWindow
	}
	maxSnippets := cfg.MaxSnippets
	if maxSnippets <= 0 {
		maxSnippets = defaultMaxSnippets
	}

	result := emptyResult(keywords)
	lower := strings.ToLower(text)

	for _, kw := range keywords {
		needle := strings.ToLower(kw)
		if needle == "" {
			result.Counts[kw] = 0
			result.Presence[kw] = false
			continue
		}

		count := 0
		var snippets []string
		for pos := 0; ; {
			idx := strings.Index(lower[pos:], needle)
			if idx < 0 {
				break
			}
			start := pos + idx
			count++
			if len(snippets) < maxSnippets {
				snippets = append(snippets, snippet(text, start, start+len(needle), window))
			}
			pos = start + len(needle)
		}

		result.Counts[kw] = count
		result.Presence[kw] = count > 0
		if len(snippets) > 0 {
			result.Snippets[kw] = snippets
		}
	}
	return result
}

func snippet(text string, start, end, window int) string {
	from := start - window
	if from < 0 {
		from = 0
	}
	to := end + window
	if to > len(text) {
		to = len(text)
	}
	s := strings.ReplaceAll(text[from:to], "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}

// extractText concatenates plain text from every page. A page that fails
// to extract contributes nothing instead of aborting the scan. The pdf
// library panics on some malformed files, so the whole pass runs under a
// recover.
func extractText(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extracting text from %s: %v", path, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			continue
		}
		b.WriteString(pageText)
	}
	return b.String(), nil
}
