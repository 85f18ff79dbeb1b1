// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"reflect"
	"testing"

	"github.com/pdiddy/litreview/pkg/types"
)

func TestDeduplicateByDOI(t *testing.T) {
	records := []types.Record{
		{DOI: "10.1/a", Title: "Paper A", Source: "arXiv"},
		{DOI: "10.1/a", Title: "A Different Title Entirely", Source: "IEEE Xplore"},
		{DOI: "10.1/b", Title: "Paper B"},
	}

	got := Deduplicate(records)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (DOI wins over differing titles)", len(got))
	}
	if got[0].Source != "arXiv" {
		t.Errorf("first-seen record lost: got source %q", got[0].Source)
	}
}

func TestDeduplicateTitleAuthorFallback(t *testing.T) {
	records := []types.Record{
		{DOI: "10.1/a", Title: "Paper A"},
		{Title: "Foo", Authors: []string{"Bar"}},
		{Title: "foo", Authors: []string{"Bar"}},
	}

	got := Deduplicate(records)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (title compared lowercased)", len(got))
	}
}

func TestDeduplicatePreservesOrder(t *testing.T) {
	records := []types.Record{
		{DOI: "10.1/c", Title: "C"},
		{DOI: "10.1/a", Title: "A"},
		{DOI: "10.1/c", Title: "C again"},
		{DOI: "10.1/b", Title: "B"},
	}

	got := Deduplicate(records)
	want := []string{"C", "A", "B"}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("got[%d].Title = %q, want %q", i, got[i].Title, title)
		}
	}
}

func TestDeduplicateIdempotent(t *testing.T) {
	records := []types.Record{
		{DOI: "10.1/a", Title: "A"},
		{Title: "Foo", Authors: []string{"Bar"}},
		{Title: "foo", Authors: []string{"Bar"}},
		{DOI: "10.1/a", Title: "A dup"},
	}

	once := Deduplicate(records)
	twice := Deduplicate(once)
	if !reflect.DeepEqual(once, twice) {
		t.Error("Deduplicate is not idempotent")
	}
}

// Two DOI-less records with matching titles and no authors collide. The
// reference pipeline ships this rule; first seen wins.
func TestDeduplicateEmptyAuthors(t *testing.T) {
	records := []types.Record{
		{Title: "Same Title", Source: "first"},
		{Title: "same title", Source: "second"},
	}

	got := Deduplicate(records)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Source != "first" {
		t.Errorf("survivor = %q, want first", got[0].Source)
	}
}

func TestDeduplicateDOINeverCollidesWithTitleKey(t *testing.T) {
	records := []types.Record{
		{DOI: "10.1/x", Title: "X"},
		{Title: "X"},
	}

	if got := Deduplicate(records); len(got) != 2 {
		t.Errorf("len = %d, want 2 (key namespaces must not overlap)", len(got))
	}
}
