// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the litreview pipeline.
// See docs/ARCHITECTURE § Pipeline Interface, § Data Structures.
package types

import "strconv"

// DocumentStatus tracks the state of full-text retrieval for a record.
// The status starts Unresolved and only moves forward: the retriever sets
// Downloaded, Blocked, or Unavailable and never resets it.
type DocumentStatus string

const (
	DocumentUnresolved  DocumentStatus = "unresolved"
	DocumentDownloaded  DocumentStatus = "downloaded"
	DocumentBlocked     DocumentStatus = "blocked"
	DocumentUnavailable DocumentStatus = "unavailable"
)

// Record is the unified, source-agnostic representation of one bibliographic
// work. Every catalog adapter maps its upstream payload into this shape; the
// deduplicator, retriever, and scanner all exchange Records by value.
type Record struct {
	// Identifier is the best-effort unique key from the source: a DOI, an
	// arXiv abs URL, a Semantic Scholar paper ID, or empty.
	Identifier string `json:"identifier" yaml:"identifier"`

	// Title is the work title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// Authors lists author names in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// AuthorsDisplay is the comma-joined rendering of Authors. Empty input
	// yields the empty string, never a missing field.
	AuthorsDisplay string `json:"authors_display" yaml:"authors_display"`

	// Venue is the journal, conference, or archive name.
	Venue string `json:"venue" yaml:"venue"`

	// Year is the source-reported publication year. Sources disagree on the
	// type, so it is kept as an opaque display string; SortRank coerces it
	// for ordering.
	Year string `json:"year" yaml:"year"`

	// DOI is kept separate from Identifier because several sources key on
	// non-DOI accession strings.
	DOI string `json:"doi" yaml:"doi"`

	// Source names the adapter that produced the record
	// (e.g. "arXiv", "Semantic Scholar", "IEEE Xplore").
	Source string `json:"source" yaml:"source"`

	// Abstract is the plain-text abstract with markup stripped.
	Abstract string `json:"abstract" yaml:"abstract"`

	// AbstractHit reports whether the query occurs case-insensitively in the
	// raw abstract.
	AbstractHit bool `json:"abstract_hit" yaml:"abstract_hit"`

	// DocumentURL is a candidate link to the full document, or empty.
	DocumentURL string `json:"document_url" yaml:"document_url"`

	// DocumentStatus is the retrieval state for DocumentURL.
	DocumentStatus DocumentStatus `json:"document_status" yaml:"document_status"`

	// DocumentPath is the cache file location once downloaded.
	DocumentPath string `json:"document_path" yaml:"document_path"`

	// PrimaryKeywords holds the query-derived keyword sequence assigned by
	// the scan stage.
	PrimaryKeywords []string `json:"primary_keywords" yaml:"primary_keywords"`

	// KeywordPresence maps keyword to whether it occurs in the document.
	KeywordPresence map[string]bool `json:"secondary_keywords_present" yaml:"secondary_keywords_present"`

	// KeywordCounts maps keyword to its occurrence count in the document.
	// Counts[k] > 0 exactly when KeywordPresence[k] is true.
	KeywordCounts map[string]int `json:"secondary_keyword_counts" yaml:"secondary_keyword_counts"`

	// KeywordSnippets maps keyword to up to five context snippets. Keywords
	// with no matches have no entry.
	KeywordSnippets map[string][]string `json:"keyword_snippets,omitempty" yaml:"keyword_snippets,omitempty"`

	// WorkType classifies the record (subject category or publication type).
	WorkType string `json:"work_type" yaml:"work_type"`

	// LastUpdated is the source-reported revision or publication timestamp.
	LastUpdated string `json:"last_updated" yaml:"last_updated"`
}

// FirstAuthor returns the first author name, or the empty string when the
// author list is empty. Used by the deduplication key.
func (r Record) FirstAuthor() string {
	if len(r.Authors) == 0 {
		return ""
	}
	return r.Authors[0]
}

// SortRank coerces Year to an integer for ordering. Non-numeric or missing
// years rank lowest.
func (r Record) SortRank() int {
	n, err := strconv.Atoi(r.Year)
	if err != nil {
		return -1 << 31
	}
	return n
}
