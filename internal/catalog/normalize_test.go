// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"reflect"
	"testing"
)

func TestCoerceAuthors(t *testing.T) {
	tests := []struct {
		name        string
		list        []string
		line        string
		want        []string
		wantDisplay string
	}{
		{"list input", []string{"Ada Lovelace", "Alan Turing"}, "", []string{"Ada Lovelace", "Alan Turing"}, "Ada Lovelace, Alan Turing"},
		{"comma line", nil, "Ada Lovelace, Alan Turing", []string{"Ada Lovelace", "Alan Turing"}, "Ada Lovelace, Alan Turing"},
		{"semicolon line", nil, "Ada Lovelace; Alan Turing", []string{"Ada Lovelace", "Alan Turing"}, "Ada Lovelace, Alan Turing"},
		{"list wins over line", []string{"Ada Lovelace"}, "Alan Turing", []string{"Ada Lovelace"}, "Ada Lovelace"},
		{"blank entries dropped", []string{" ", "Ada Lovelace", ""}, "", []string{"Ada Lovelace"}, "Ada Lovelace"},
		{"empty input", nil, "", []string{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, display := coerceAuthors(tt.list, tt.line)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("authors = %v, want %v", got, tt.want)
			}
			if display != tt.wantDisplay {
				t.Errorf("display = %q, want %q", display, tt.wantDisplay)
			}
		})
	}
}

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "No markup here.", "No markup here."},
		{"jats fragment", "<jats:p>Deep learning for <jats:italic>edge</jats:italic> devices.</jats:p>", "Deep learning for edge devices."},
		{"html", "<p>Hello <b>world</b></p>", "Hello world"},
		{"unclosed tag", "<p>partial <b>markup", "partial markup"},
		{"whitespace collapsed", "line one\n\n  line two", "line one line two"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkup(tt.in); got != tt.want {
				t.Errorf("StripMarkup(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewRecordAbstractHit(t *testing.T) {
	rec := NewRecord(Fields{
		DOI:      "10.1/xyz",
		Abstract: "This covers AI Safety.",
		Query:    "ai safety",
	})
	if !rec.AbstractHit {
		t.Error("AbstractHit = false, want true for case-insensitive match")
	}

	miss := NewRecord(Fields{Abstract: "Unrelated text.", Query: "ai safety"})
	if miss.AbstractHit {
		t.Error("AbstractHit = true, want false")
	}
}

func TestNewRecordDefaults(t *testing.T) {
	rec := NewRecord(Fields{Title: "Some Work"})

	if rec.DocumentStatus != "unresolved" {
		t.Errorf("DocumentStatus = %q, want unresolved", rec.DocumentStatus)
	}
	if rec.WorkType != "Other" {
		t.Errorf("WorkType = %q, want Other", rec.WorkType)
	}
	if rec.AuthorsDisplay != "" {
		t.Errorf("AuthorsDisplay = %q, want empty string", rec.AuthorsDisplay)
	}
	if rec.Authors == nil || rec.KeywordPresence == nil || rec.KeywordCounts == nil || rec.KeywordSnippets == nil {
		t.Error("per-keyword containers must be initialized, not nil")
	}
}

// Each normalization call must construct independent containers; a write
// through one record must never show up in another.
func TestNewRecordFreshContainers(t *testing.T) {
	a := NewRecord(Fields{Title: "A"})
	b := NewRecord(Fields{Title: "B"})

	a.KeywordCounts["attack"] = 3
	a.KeywordPresence["attack"] = true
	a.PrimaryKeywords = append(a.PrimaryKeywords, "attack")

	if len(b.KeywordCounts) != 0 || len(b.KeywordPresence) != 0 || len(b.PrimaryKeywords) != 0 {
		t.Error("records share container instances across NewRecord calls")
	}
}
