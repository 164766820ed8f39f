package repository

import (
	"context"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/srinbasjoys/TEAP/internal/docstore"
	"github.com/srinbasjoys/TEAP/internal/model"
)

// BlogRepo stores posts. Content is HTML authored in the admin UI; it is
// passed through a UGC policy on every write so stored markup is safe to
// render verbatim.
type BlogRepo struct {
	Store  docstore.Store
	policy *bluemonday.Policy
}

func NewBlogRepo(s docstore.Store) *BlogRepo {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	return &BlogRepo{Store: s, policy: p}
}

// List returns posts newest first. With publishedOnly, drafts are skipped.
func (r *BlogRepo) List(ctx context.Context, publishedOnly bool) ([]model.Blog, error) {
	var filter docstore.Filter
	if publishedOnly {
		filter = docstore.Filter{"published": true}
	}
	var out []model.Blog
	err := r.Store.FindMany(ctx, CollBlogs, filter, docstore.FindOptions{
		Sort: []docstore.SortField{docstore.Desc("created_at")},
	}, &out)
	return out, err
}

// Published returns published posts in store order, for the sitemap.
func (r *BlogRepo) Published(ctx context.Context) ([]model.Blog, error) {
	var out []model.Blog
	err := r.Store.FindMany(ctx, CollBlogs, docstore.Filter{"published": true}, docstore.FindOptions{}, &out)
	return out, err
}

// RecentlyUpdated returns up to limit posts by descending updated_at.
func (r *BlogRepo) RecentlyUpdated(ctx context.Context, limit int) ([]model.Blog, error) {
	var out []model.Blog
	err := r.Store.FindMany(ctx, CollBlogs, nil, docstore.FindOptions{
		Sort:  []docstore.SortField{docstore.Desc("updated_at")},
		Limit: limit,
	}, &out)
	return out, err
}

func (r *BlogRepo) GetBySlug(ctx context.Context, slug string) (model.Blog, error) {
	var b model.Blog
	err := r.Store.FindOne(ctx, CollBlogs, docstore.Filter{"slug": slug}, &b)
	return b, notFound(err)
}

// Create stores b with a fresh id and timestamps. It fails with ErrConflict
// when the slug is taken.
func (r *BlogRepo) Create(ctx context.Context, b model.Blog) (model.Blog, error) {
	n, err := r.Store.Count(ctx, CollBlogs, docstore.Filter{"slug": b.Slug})
	if err != nil {
		return model.Blog{}, err
	}
	if n > 0 {
		return model.Blog{}, ErrConflict
	}
	if b.Author == "" {
		b.Author = model.DefaultAuthor
	}
	now := model.Now()
	b.ID = newID()
	b.Content = r.policy.Sanitize(b.Content)
	b.CreatedAt = now
	b.UpdatedAt = now
	if err := r.Store.Insert(ctx, CollBlogs, b); err != nil {
		return model.Blog{}, err
	}
	return b, nil
}

// Update applies the non-nil fields of p, bumps updated_at and returns the
// stored post.
// clearFeaturedImage shadows the embedded field so the patch writes null.
type clearFeaturedImage struct {
	model.BlogPatch
	FeaturedImage *string `json:"featured_image"`
}

func (r *BlogRepo) Update(ctx context.Context, slug string, p model.BlogPatch) (model.Blog, error) {
	if p.Content != nil {
		clean := r.policy.Sanitize(*p.Content)
		p.Content = &clean
	}
	now := model.Now()
	p.UpdatedAt = &now
	var patch any = p
	if p.FeaturedImage != nil && strings.TrimSpace(*p.FeaturedImage) == "" {
		p.FeaturedImage = nil
		patch = clearFeaturedImage{BlogPatch: p}
	}
	n, err := r.Store.Update(ctx, CollBlogs, docstore.Filter{"slug": slug}, patch, false)
	if err != nil {
		return model.Blog{}, err
	}
	if n == 0 {
		return model.Blog{}, ErrNotFound
	}
	return r.GetBySlug(ctx, slug)
}

func (r *BlogRepo) Delete(ctx context.Context, slug string) error {
	n, err := r.Store.Delete(ctx, CollBlogs, docstore.Filter{"slug": slug})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BlogRepo) Count(ctx context.Context) (int64, error) {
	return r.Store.Count(ctx, CollBlogs, nil)
}
