// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieve downloads full-text documents into an idempotent on-disk
// cache and classifies the outcome per record.
//
//	docs/ARCHITECTURE § Document Retrieval.
package retrieve

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/litreview/pkg/types"
)

const documentExt = ".pdf"

// browserHeaders mimic a desktop browser. Several publisher CDNs refuse
// the default Go client outright.
var browserHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
	"Accept":          "application/pdf,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
	"Connection":      "keep-alive",
}

// refererSources lists sources whose document hosts require a Referer
// header matching the document URL.
var refererSources = map[string]bool{
	"ACM Digital Library": true,
	"Semantic Scholar":    true,
}

// NormalizeURL rewrites an arXiv abstract landing page to the direct PDF
// endpoint. Already-direct URLs pass through unchanged, so the rewrite is
// a no-op on its own output.
func NormalizeURL(docURL string) string {
	if strings.Contains(docURL, "arxiv.org/abs/") {
		return strings.Replace(docURL, "/abs/", "/pdf/", 1)
	}
	return docURL
}

// CacheKey derives the filesystem-safe cache filename for a record: the
// DOI when present, else the identifier, else the URL path basename, with
// unsafe characters replaced and the document extension appended.
func CacheKey(rec types.Record, docURL string) string {
	base := rec.DOI
	if base == "" {
		base = rec.Identifier
	}
	if base == "" {
		if u, err := url.Parse(docURL); err == nil {
			base = filepath.Base(u.Path)
		}
	}
	return sanitize(base) + documentExt
}

func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// Resolve downloads the document for one record and returns the updated
// copy. The record's status moves from unresolved to exactly one of
// downloaded, blocked, or unavailable:
//
//   - no usable URL → unavailable, no network call
//   - file already cached → downloaded, no network call
//   - HTTP 200 with a PDF content type → body written, downloaded
//   - HTTP 403/418 → blocked, no partial file kept
//   - any other status, content type, or transport error → unavailable
//
// Errors never propagate; failures are reported on w and in the status.
func Resolve(client *http.Client, rec types.Record, cfg types.RetrievalConfig, w io.Writer) types.Record {
	docURL := NormalizeURL(rec.DocumentURL)
	if docURL == "" {
		rec.DocumentStatus = types.DocumentUnavailable
		return rec
	}

	path := filepath.Join(cfg.CacheDir, CacheKey(rec, docURL))
	if _, err := os.Stat(path); err == nil {
		rec.DocumentStatus = types.DocumentDownloaded
		rec.DocumentPath = path
		return rec
	}

	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		fmt.Fprintf(w, "failed: %s (creating cache dir: %v)\n", rec.Title, err)
		rec.DocumentStatus = types.DocumentUnavailable
		return rec
	}

	req, err := http.NewRequest(http.MethodGet, docURL, nil)
	if err != nil {
		fmt.Fprintf(w, "failed: %s (bad URL %s)\n", rec.Title, docURL)
		rec.DocumentStatus = types.DocumentUnavailable
		return rec
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}
	if refererSources[rec.Source] {
		req.Header.Set("Referer", docURL)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintf(w, "failed: %s (%v)\n", rec.Title, err)
		rec.DocumentStatus = types.DocumentUnavailable
		return rec
	}
	defer resp.Body.Close()

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	switch {
	case resp.StatusCode == http.StatusOK && strings.Contains(contentType, "pdf"):
		if err := writeFile(resp.Body, path); err != nil {
			fmt.Fprintf(w, "failed: %s (writing cache file: %v)\n", rec.Title, err)
			rec.DocumentStatus = types.DocumentUnavailable
			return rec
		}
		rec.DocumentStatus = types.DocumentDownloaded
		rec.DocumentPath = path

	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTeapot:
		fmt.Fprintf(w, "blocked (%d): %s -> %s\n", resp.StatusCode, rec.Title, docURL)
		rec.DocumentStatus = types.DocumentBlocked

	default:
		fmt.Fprintf(w, "cannot download (%d, %s) -> %s\n", resp.StatusCode, contentType, docURL)
		rec.DocumentStatus = types.DocumentUnavailable
	}
	return rec
}

// ResolveAll downloads documents for a batch sequentially, preserving
// input order. Repeated calls are idempotent: cached files short-circuit
// the network fetch.
func ResolveAll(client *http.Client, records []types.Record, cfg types.RetrievalConfig, w io.Writer) []types.Record {
	out := make([]types.Record, len(records))
	for i, rec := range records {
		fmt.Fprintf(w, "retrieving document %d/%d: %s\n", i+1, len(records), rec.Title)
		out[i] = Resolve(client, rec, cfg, w)
	}
	return out
}

// writeFile streams body to a temp file and renames it into place, so a
// failed download never leaves a partial cache entry behind.
func writeFile(body io.Reader, destPath string) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".retrieve-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
