package repository

import (
	"context"

	"github.com/srinbasjoys/TEAP/internal/docstore"
	"github.com/srinbasjoys/TEAP/internal/model"
)

// HistoryLimit caps GET /logo/history.
const HistoryLimit = 100

type LogoRepo struct{ Store docstore.Store }

func NewLogoRepo(s docstore.Store) *LogoRepo { return &LogoRepo{Store: s} }

// Append records one upload.
func (r *LogoRepo) Append(ctx context.Context, l model.Logo) (model.Logo, error) {
	l.ID = newID()
	l.UploadedAt = model.Now()
	if err := r.Store.Insert(ctx, CollLogos, l); err != nil {
		return model.Logo{}, err
	}
	return l, nil
}

// Current returns the most recent upload, or ErrNotFound.
func (r *LogoRepo) Current(ctx context.Context) (model.Logo, error) {
	var l model.Logo
	err := r.Store.FindOne(ctx, CollLogos, nil, &l, docstore.Desc("uploaded_at"))
	return l, notFound(err)
}

// History returns up to limit uploads newest first.
func (r *LogoRepo) History(ctx context.Context, limit int) ([]model.Logo, error) {
	var out []model.Logo
	err := r.Store.FindMany(ctx, CollLogos, nil, docstore.FindOptions{
		Sort:  []docstore.SortField{docstore.Desc("uploaded_at")},
		Limit: limit,
	}, &out)
	return out, err
}

func (r *LogoRepo) Count(ctx context.Context) (int64, error) {
	return r.Store.Count(ctx, CollLogos, nil)
}
