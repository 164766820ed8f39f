package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/srinbasjoys/TEAP/internal/docstore"
	"github.com/srinbasjoys/TEAP/internal/model"
)

func setupTestStore(t *testing.T) (docstore.Store, func()) {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "repo.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	s := docstore.New(db, docstore.SQLite)
	if err := s.EnsureSchema(context.Background()); err != nil {
		db.Close()
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	return s, func() { db.Close() }
}

func strPtr(s string) *string { return &s }

func TestAdminCreateAndLookup(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	r := NewAdminRepo(s)

	a, err := r.Create(ctx, "  Admin@Example.com ", "pw", 4)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if a.Email != "admin@example.com" {
		t.Errorf("expected normalized email, got %q", a.Email)
	}
	if a.PasswordHash == "" || a.PasswordHash == "pw" {
		t.Error("expected a bcrypt hash")
	}

	if _, err := r.Create(ctx, "admin@example.com", "other", 4); !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}

	got, err := r.GetByEmail(ctx, "ADMIN@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != a.ID {
		t.Errorf("expected id %s, got %s", a.ID, got.ID)
	}
	if _, err := r.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBlogLifecycle(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	r := NewBlogRepo(s)

	b, err := r.Create(ctx, model.Blog{
		Slug:      "x",
		Title:     "Old",
		Excerpt:   "ex",
		Content:   `<p>hi</p><script>alert(1)</script>`,
		Keywords:  "k",
		Published: true,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if b.Author != model.DefaultAuthor {
		t.Errorf("expected default author, got %q", b.Author)
	}
	if strings.Contains(b.Content, "<script>") || !strings.Contains(b.Content, "<p>hi</p>") {
		t.Errorf("content not sanitized as expected: %q", b.Content)
	}

	if _, err := r.Create(ctx, model.Blog{Slug: "x", Title: "Dup"}); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}

	up, err := r.Update(ctx, "x", model.BlogPatch{Title: strPtr("New")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if up.Title != "New" || up.Excerpt != "ex" || up.Keywords != "k" || !up.Published {
		t.Errorf("expected only title to change, got %+v", up)
	}
	if up.ID != b.ID || !up.CreatedAt.Equal(b.CreatedAt.Time) {
		t.Error("identity fields must not change")
	}
	if !up.UpdatedAt.After(b.UpdatedAt.Time) && !up.UpdatedAt.Equal(b.UpdatedAt.Time) {
		t.Errorf("updated_at went backwards: %v -> %v", b.UpdatedAt, up.UpdatedAt)
	}

	if _, err := r.Update(ctx, "missing", model.BlogPatch{Title: strPtr("x")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := r.Delete(ctx, "x"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := r.GetBySlug(ctx, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := r.Delete(ctx, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestBlogFeaturedImageClears(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	r := NewBlogRepo(s)

	if _, err := r.Create(ctx, model.Blog{Slug: "img", Title: "T", FeaturedImage: strPtr("/a.png")}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	up, err := r.Update(ctx, "img", model.BlogPatch{Title: strPtr("T2")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if up.FeaturedImage == nil || *up.FeaturedImage != "/a.png" {
		t.Fatalf("omitted featured_image must be kept, got %v", up.FeaturedImage)
	}

	up, err = r.Update(ctx, "img", model.BlogPatch{FeaturedImage: strPtr("")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if up.FeaturedImage != nil {
		t.Errorf("expected featured_image cleared, got %q", *up.FeaturedImage)
	}
	if up.Title != "T2" {
		t.Errorf("clearing the image must keep other fields, got %+v", up)
	}
}

func TestBlogListFiltersDrafts(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	r := NewBlogRepo(s)

	for _, b := range []model.Blog{
		{Slug: "first", Title: "First", Published: true},
		{Slug: "draft", Title: "Draft", Published: false},
		{Slug: "second", Title: "Second", Published: true},
	} {
		if _, err := r.Create(ctx, b); err != nil {
			t.Fatalf("Create %s failed: %v", b.Slug, err)
		}
	}

	pub, err := r.List(ctx, true)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(pub) != 2 || pub[0].Slug != "second" || pub[1].Slug != "first" {
		t.Errorf("expected second,first got %+v", pub)
	}

	all, _ := r.List(ctx, false)
	if len(all) != 3 {
		t.Errorf("expected 3 posts, got %d", len(all))
	}
}

func TestRobotsReplaceKeepsSingleRow(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	r := NewRobotsRepo(s)

	if _, err := r.Current(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound before any write, got %v", err)
	}
	for _, body := range []string{"one", "two", "three"} {
		if _, err := r.Replace(ctx, body); err != nil {
			t.Fatalf("Replace failed: %v", err)
		}
	}
	n, _ := r.Count(ctx)
	if n != 1 {
		t.Errorf("expected 1 row, got %d", n)
	}
	cur, err := r.Current(ctx)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if cur.Content != "three" {
		t.Errorf("expected latest content, got %q", cur.Content)
	}
}

func TestSEOCreateAndUpsert(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	r := NewSEORepo(s)

	created, err := r.Create(ctx, model.SEOSettings{Page: "home", Title: strPtr("Home")})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := r.Create(ctx, model.SEOSettings{Page: "home"}); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}

	up, err := r.Upsert(ctx, model.SEOSettings{Page: "home", Description: strPtr("desc")})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if up.ID != created.ID {
		t.Errorf("expected id to be kept, got %s want %s", up.ID, created.ID)
	}
	if up.Title != nil || up.Description == nil || *up.Description != "desc" {
		t.Errorf("expected fields to be replaced, got %+v", up)
	}

	fresh, err := r.Upsert(ctx, model.SEOSettings{Page: "about", Title: strPtr("About")})
	if err != nil {
		t.Fatalf("Upsert insert failed: %v", err)
	}
	if fresh.ID == "" {
		t.Error("expected new row to get an id")
	}
	if n, _ := r.Count(ctx); n != 2 {
		t.Errorf("expected 2 rows, got %d", n)
	}
	if _, err := r.GetByPage(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLogoHistory(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	r := NewLogoRepo(s)

	if _, err := r.Current(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	for _, name := range []string{"a.png", "b.png"} {
		if _, err := r.Append(ctx, model.Logo{Filename: name, UploadedBy: "admin@example.com", Path: "/logo.png"}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	cur, err := r.Current(ctx)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if cur.Filename != "b.png" {
		t.Errorf("expected latest upload, got %q", cur.Filename)
	}
	hist, _ := r.History(ctx, HistoryLimit)
	if len(hist) != 2 || hist[0].Filename != "b.png" {
		t.Errorf("unexpected history: %+v", hist)
	}
}

func TestKeywordDelete(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	r := NewKeywordRepo(s)

	k, err := r.Create(ctx, model.Keyword{Keyword: "go", Page: "/"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := r.Delete(ctx, k.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := r.Delete(ctx, k.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
