// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/litreview/pkg/types"
)

// Fields carries one upstream item's heterogeneous values into NewRecord.
// Adapters fill whichever fields their catalog provides; the rest default.
// Author names may arrive as a list or as a single joined string.
type Fields struct {
	Identifier  string
	Title       string
	Authors     []string
	AuthorLine  string
	Venue       string
	Year        string
	DOI         string
	Source      string
	Abstract    string
	DocumentURL string
	WorkType    string
	LastUpdated string

	// Query is the search term used to compute the abstract hit flag.
	Query string
}

// NewRecord builds the canonical record from adapter fields. Pure function,
// no I/O. Every call constructs fresh map and slice instances for the
// per-keyword fields; nothing is shared between records.
func NewRecord(f Fields) types.Record {
	authors, display := coerceAuthors(f.Authors, f.AuthorLine)

	workType := f.WorkType
	if workType == "" {
		workType = "Other"
	}

	return types.Record{
		Identifier:      f.Identifier,
		Title:           strings.TrimSpace(f.Title),
		Authors:         authors,
		AuthorsDisplay:  display,
		Venue:           f.Venue,
		Year:            f.Year,
		DOI:             f.DOI,
		Source:          f.Source,
		Abstract:        StripMarkup(f.Abstract),
		AbstractHit:     queryHit(f.Query, f.Abstract),
		DocumentURL:     f.DocumentURL,
		DocumentStatus:  types.DocumentUnresolved,
		PrimaryKeywords: []string{},
		KeywordPresence: map[string]bool{},
		KeywordCounts:   map[string]int{},
		KeywordSnippets: map[string][]string{},
		WorkType:        workType,
		LastUpdated:     f.LastUpdated,
	}
}

// coerceAuthors reconciles the two upstream author representations into
// both canonical forms. Empty input yields an empty slice and "".
func coerceAuthors(list []string, line string) ([]string, string) {
	authors := make([]string, 0, len(list))
	for _, a := range list {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}

	if len(authors) == 0 && line != "" {
		sep := ","
		if strings.Contains(line, ";") {
			sep = ";"
		}
		for _, a := range strings.Split(line, sep) {
			if a = strings.TrimSpace(a); a != "" {
				authors = append(authors, a)
			}
		}
	}

	return authors, strings.Join(authors, ", ")
}

// StripMarkup removes HTML/XML tags from abstract text. Catalogs embed
// markup inconsistently (CrossRef ships JATS fragments, arXiv is plain
// text); goquery's parser tolerates malformed and partial markup. The
// result is whitespace-normalized plain text.
func StripMarkup(s string) string {
	if s == "" {
		return ""
	}
	if !strings.ContainsRune(s, '<') {
		return strings.Join(strings.Fields(s), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// queryHit reports whether query occurs case-insensitively in the raw
// abstract.
func queryHit(query, abstract string) bool {
	if query == "" || abstract == "" {
		return false
	}
	return strings.Contains(strings.ToLower(abstract), strings.ToLower(query))
}
