// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"testing"

	"github.com/pdiddy/litreview/pkg/types"
)

// stubSource returns canned records, optionally alongside an error.
type stubSource struct {
	name    string
	records []types.Record
	err     error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(_ context.Context, _ string, _ FetchOptions) ([]types.Record, error) {
	return s.records, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCatalogTags(t *testing.T) {
	c := New(testCatalogCfg(), &http.Client{}, nil, discardLogger())
	want := []string{TagACM, TagArxiv, TagGoogle, TagIEEE, TagSemantic}
	if got := c.Tags(); !reflect.DeepEqual(got, want) {
		t.Errorf("Tags() = %v, want %v", got, want)
	}
}

func TestFetchFromSourceUnknownTag(t *testing.T) {
	c := New(testCatalogCfg(), &http.Client{}, nil, discardLogger())
	if got := c.FetchFromSource(context.Background(), "nope", "q", 5, false); got != nil {
		t.Errorf("unknown tag returned %v, want nil", got)
	}
}

func TestFetchFromSourceSwallowsErrors(t *testing.T) {
	partial := []types.Record{{Identifier: "a1", Title: "Kept Despite Error"}}
	c := New(testCatalogCfg(), &http.Client{}, nil, discardLogger())
	c.Register(TagArxiv, &stubSource{name: TagArxiv, records: partial, err: fmt.Errorf("upstream down")})

	got := c.FetchFromSource(context.Background(), TagArxiv, "q", 5, false)
	if !reflect.DeepEqual(got, partial) {
		t.Errorf("got %v, want partial results preserved", got)
	}
}

func TestFetchFromSourceDispatch(t *testing.T) {
	c := New(testCatalogCfg(), &http.Client{}, nil, discardLogger())
	c.Register(TagIEEE, &stubSource{name: TagIEEE, records: []types.Record{{Identifier: "x1"}}})
	c.Register(TagACM, &stubSource{name: TagACM, records: []types.Record{{Identifier: "x2"}}})

	got := c.FetchFromSource(context.Background(), TagACM, "q", 5, false)
	if len(got) != 1 || got[0].Identifier != "x2" {
		t.Errorf("got %v, want the record registered under %q", got, TagACM)
	}
}
