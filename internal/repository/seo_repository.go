package repository

import (
	"context"

	"github.com/srinbasjoys/TEAP/internal/docstore"
	"github.com/srinbasjoys/TEAP/internal/model"
)

type SEORepo struct{ Store docstore.Store }

func NewSEORepo(s docstore.Store) *SEORepo { return &SEORepo{Store: s} }

func (r *SEORepo) List(ctx context.Context) ([]model.SEOSettings, error) {
	var out []model.SEOSettings
	err := r.Store.FindMany(ctx, CollSEOSettings, nil, docstore.FindOptions{Sort: []docstore.SortField{docstore.Asc("page")}}, &out)
	return out, err
}

func (r *SEORepo) GetByPage(ctx context.Context, page string) (model.SEOSettings, error) {
	var s model.SEOSettings
	err := r.Store.FindOne(ctx, CollSEOSettings, docstore.Filter{"page": page}, &s)
	return s, notFound(err)
}

// Create stores s under a fresh id. It fails with ErrConflict when the page
// already has settings.
func (r *SEORepo) Create(ctx context.Context, s model.SEOSettings) (model.SEOSettings, error) {
	n, err := r.Store.Count(ctx, CollSEOSettings, docstore.Filter{"page": s.Page})
	if err != nil {
		return model.SEOSettings{}, err
	}
	if n > 0 {
		return model.SEOSettings{}, ErrConflict
	}
	s.ID = newID()
	s.UpdatedAt = model.Now()
	if err := r.Store.Insert(ctx, CollSEOSettings, s); err != nil {
		return model.SEOSettings{}, err
	}
	return s, nil
}

// Upsert replaces every metadata field of the page, creating the row when
// it does not exist. The id of an existing row is kept.
func (r *SEORepo) Upsert(ctx context.Context, s model.SEOSettings) (model.SEOSettings, error) {
	s.UpdatedAt = model.Now()
	patch := map[string]any{
		"title":       s.Title,
		"description": s.Description,
		"keywords":    s.Keywords,
		"og_image":    s.OGImage,
		"json_ld":     s.JSONLD,
		"updated_at":  s.UpdatedAt,
	}
	n, err := r.Store.Update(ctx, CollSEOSettings, docstore.Filter{"page": s.Page}, patch, false)
	if err != nil {
		return model.SEOSettings{}, err
	}
	if n == 0 {
		s.ID = newID()
		if err := r.Store.Insert(ctx, CollSEOSettings, s); err != nil {
			return model.SEOSettings{}, err
		}
		return s, nil
	}
	return r.GetByPage(ctx, s.Page)
}

func (r *SEORepo) Count(ctx context.Context) (int64, error) {
	return r.Store.Count(ctx, CollSEOSettings, nil)
}
