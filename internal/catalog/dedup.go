// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"strings"

	"github.com/pdiddy/litreview/pkg/types"
)

// Deduplicate merges records referring to the same work across sources.
// The key is the DOI when present, else the pair (lowercased title, first
// author or empty). Single linear pass, first occurrence wins, input order
// preserved, surviving records untouched. Idempotent.
func Deduplicate(records []types.Record) []types.Record {
	seen := make(map[string]struct{}, len(records))
	unique := make([]types.Record, 0, len(records))

	for _, r := range records {
		key := dedupKey(r)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, r)
	}
	return unique
}

// dedupKey prefixes the two key shapes so a DOI can never collide with a
// title/author pair.
func dedupKey(r types.Record) string {
	if r.DOI != "" {
		return "doi:" + r.DOI
	}
	return "ta:" + strings.ToLower(r.Title) + "\x00" + r.FirstAuthor()
}
