// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with catalog API requests
	// (e.g. "litreview/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CatalogConfig holds settings for the catalog fetch stage.
type CatalogConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the per-source result cap when FetchAll is off (default 5).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// SemanticScholarAPIKey authenticates against the Semantic Scholar API.
	// Optional: absence degrades to anonymous rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// IEEEAPIKey authenticates against the IEEE Xplore API. When empty or
	// rejected, the IEEE adapter falls back to the CrossRef member search.
	IEEEAPIKey string `json:"ieee_api_key,omitempty" yaml:"ieee_api_key,omitempty"`

	// YearFilter restricts Semantic Scholar results by publication year
	// (e.g. "2023-"). Empty means no restriction.
	YearFilter string `json:"year_filter,omitempty" yaml:"year_filter,omitempty"`

	// ScholarPages is the number of result pages the scraper tool walks.
	ScholarPages int `json:"scholar_pages" yaml:"scholar_pages"`

	// ScraperTimeout bounds the wait for the scraper's result file (default 120s).
	ScraperTimeout time.Duration `json:"scraper_timeout" yaml:"scraper_timeout"`

	// ScraperDir is the working directory the scraper tool writes result.csv into.
	ScraperDir string `json:"scraper_dir" yaml:"scraper_dir"`
}

// RetrievalConfig holds settings for the document retrieval stage.
type RetrievalConfig struct {
	HTTPConfig `yaml:",inline"`

	// CacheDir is the directory holding downloaded documents, one
	// <sanitized key>.pdf per record. Files are created once and never
	// overwritten, so the cache is safe to share across runs.
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`
}

// ScanConfig holds settings for the keyword scan stage.
type ScanConfig struct {
	// SnippetWindow is the number of context characters kept on each side
	// of a keyword match (default 40).
	SnippetWindow int `json:"snippet_window" yaml:"snippet_window"`

	// MaxSnippets caps snippets per keyword (default 5).
	MaxSnippets int `json:"max_snippets" yaml:"max_snippets"`
}

// StoreConfig holds settings for the record catalog store.
type StoreConfig struct {
	// CatalogDir is the directory containing the SQLite database file.
	CatalogDir string `json:"catalog_dir" yaml:"catalog_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Catalog   CatalogConfig   `json:"catalog" yaml:"catalog"`
	Retrieval RetrievalConfig `json:"retrieval" yaml:"retrieval"`
	Scan      ScanConfig      `json:"scan" yaml:"scan"`
	Store     StoreConfig     `json:"store" yaml:"store"`
}
