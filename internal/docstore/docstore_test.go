package docstore

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

type item struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Rank  int    `json:"rank"`
	Live  bool   `json:"live"`
	Extra string `json:"extra,omitempty"`
}

func setupTestStore(t *testing.T) (*SQLStore, func()) {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "docs.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	s := New(db, SQLite)
	if err := s.EnsureSchema(context.Background()); err != nil {
		db.Close()
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	return s, func() { db.Close() }
}

func seed(t *testing.T, s *SQLStore, items ...item) {
	t.Helper()
	for _, it := range items {
		if err := s.Insert(context.Background(), "items", it); err != nil {
			t.Fatalf("Insert %s failed: %v", it.Name, err)
		}
	}
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("second EnsureSchema failed: %v", err)
	}
}

func TestInsertAndFindOne(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	seed(t, s, item{Name: "a", Kind: "x", Rank: 1, Live: true})

	var got item
	if err := s.FindOne(ctx, "items", Filter{"name": "a"}, &got); err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if got.Kind != "x" || got.Rank != 1 || !got.Live {
		t.Errorf("unexpected document: %+v", got)
	}

	err := s.FindOne(ctx, "items", Filter{"name": "missing"}, &got)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Collections are isolated.
	err = s.FindOne(ctx, "other", Filter{"name": "a"}, &got)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound in other collection, got %v", err)
	}
}

func TestFilterTypes(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	seed(t, s,
		item{Name: "a", Kind: "x", Rank: 1, Live: true},
		item{Name: "b", Kind: "x", Rank: 2, Live: false},
		item{Name: "c", Kind: "y", Rank: 2, Live: true},
	)

	tests := []struct {
		name   string
		filter Filter
		want   int64
	}{
		{"empty filter", nil, 3},
		{"string", Filter{"kind": "x"}, 2},
		{"bool true", Filter{"live": true}, 2},
		{"bool false", Filter{"live": false}, 1},
		{"number", Filter{"rank": 2}, 2},
		{"combined", Filter{"kind": "x", "live": true}, 1},
		{"no match", Filter{"kind": "z"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := s.Count(ctx, "items", tt.filter)
			if err != nil {
				t.Fatalf("Count failed: %v", err)
			}
			if n != tt.want {
				t.Errorf("expected %d, got %d", tt.want, n)
			}
		})
	}
}

func TestFindManySortAndLimit(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	seed(t, s,
		item{Name: "b", Rank: 2},
		item{Name: "a", Rank: 1},
		item{Name: "c", Rank: 3},
	)

	var all []item
	if err := s.FindMany(ctx, "items", nil, FindOptions{}, &all); err != nil {
		t.Fatalf("FindMany failed: %v", err)
	}
	if len(all) != 3 || all[0].Name != "b" || all[2].Name != "c" {
		t.Errorf("expected insertion order b,a,c, got %+v", all)
	}

	var desc []item
	if err := s.FindMany(ctx, "items", nil, FindOptions{Sort: []SortField{Desc("rank")}, Limit: 2}, &desc); err != nil {
		t.Fatalf("FindMany failed: %v", err)
	}
	if len(desc) != 2 || desc[0].Name != "c" || desc[1].Name != "b" {
		t.Errorf("expected c,b, got %+v", desc)
	}

	var asc []item
	if err := s.FindMany(ctx, "items", nil, FindOptions{Sort: []SortField{Asc("name")}}, &asc); err != nil {
		t.Fatalf("FindMany failed: %v", err)
	}
	if asc[0].Name != "a" || asc[1].Name != "b" || asc[2].Name != "c" {
		t.Errorf("expected a,b,c, got %+v", asc)
	}

	var none []item
	if err := s.FindMany(ctx, "empty", nil, FindOptions{}, &none); err != nil {
		t.Fatalf("FindMany on empty collection failed: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", none)
	}
}

func TestFindOneSorted(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	seed(t, s, item{Name: "old", Rank: 1}, item{Name: "new", Rank: 5}, item{Name: "mid", Rank: 3})

	var got item
	if err := s.FindOne(context.Background(), "items", nil, &got, Desc("rank")); err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if got.Name != "new" {
		t.Errorf("expected highest rank, got %q", got.Name)
	}
}

func TestUpdateMergesFields(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	seed(t, s, item{Name: "a", Kind: "x", Rank: 1, Extra: "keep"})

	n, err := s.Update(ctx, "items", Filter{"name": "a"}, map[string]any{"rank": 9}, false)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 match, got %d", n)
	}

	var got item
	if err := s.FindOne(ctx, "items", Filter{"name": "a"}, &got); err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if got.Rank != 9 || got.Kind != "x" || got.Extra != "keep" {
		t.Errorf("expected only rank to change, got %+v", got)
	}

	n, err = s.Update(ctx, "items", Filter{"name": "missing"}, map[string]any{"rank": 1}, false)
	if err != nil || n != 0 {
		t.Errorf("expected 0 matches without error, got %d, %v", n, err)
	}
	if c, _ := s.Count(ctx, "items", nil); c != 1 {
		t.Errorf("update without upsert must not insert, count=%d", c)
	}
}

func TestUpdateUpsert(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	n, err := s.Update(ctx, "items", Filter{"name": "fresh"}, map[string]any{"kind": "y"}, true)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 matches, got %d", n)
	}

	var got item
	if err := s.FindOne(ctx, "items", Filter{"name": "fresh"}, &got); err != nil {
		t.Fatalf("upserted document not found: %v", err)
	}
	if got.Kind != "y" {
		t.Errorf("expected kind y, got %q", got.Kind)
	}

	// A second upsert updates instead of inserting.
	if _, err := s.Update(ctx, "items", Filter{"name": "fresh"}, map[string]any{"kind": "z"}, true); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if c, _ := s.Count(ctx, "items", nil); c != 1 {
		t.Errorf("expected a single document, got %d", c)
	}
}

func TestDelete(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	seed(t, s, item{Name: "a", Kind: "x"}, item{Name: "b", Kind: "x"}, item{Name: "c", Kind: "y"})

	n, err := s.Delete(ctx, "items", Filter{"kind": "x"})
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 deleted, got %d", n)
	}
	n, _ = s.Delete(ctx, "items", Filter{"kind": "x"})
	if n != 0 {
		t.Errorf("expected 0 deleted on second call, got %d", n)
	}
	if c, _ := s.Count(ctx, "items", nil); c != 1 {
		t.Errorf("expected 1 remaining, got %d", c)
	}
}

func TestInvalidFieldNames(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := s.Count(ctx, "items", Filter{"name') OR 1=1 --": "x"})
	if !errors.Is(err, ErrInvalidField) {
		t.Errorf("expected ErrInvalidField for filter, got %v", err)
	}
	var out []item
	err = s.FindMany(ctx, "items", nil, FindOptions{Sort: []SortField{Asc("a.b")}}, &out)
	if !errors.Is(err, ErrInvalidField) {
		t.Errorf("expected ErrInvalidField for sort, got %v", err)
	}
}

func TestInsertRejectsNonObjects(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	for _, doc := range []any{"text", 42, []int{1, 2}, nil} {
		if err := s.Insert(context.Background(), "items", doc); err == nil {
			t.Errorf("expected error inserting %#v", doc)
		}
	}
}
