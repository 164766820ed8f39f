package repository

import (
	"context"

	"github.com/srinbasjoys/TEAP/internal/docstore"
	"github.com/srinbasjoys/TEAP/internal/model"
)

type KeywordRepo struct{ Store docstore.Store }

func NewKeywordRepo(s docstore.Store) *KeywordRepo { return &KeywordRepo{Store: s} }

// List returns keywords in the order they were added.
func (r *KeywordRepo) List(ctx context.Context) ([]model.Keyword, error) {
	var out []model.Keyword
	err := r.Store.FindMany(ctx, CollKeywords, nil, docstore.FindOptions{}, &out)
	return out, err
}

func (r *KeywordRepo) Create(ctx context.Context, k model.Keyword) (model.Keyword, error) {
	k.ID = newID()
	k.TrackedAt = model.Now()
	if err := r.Store.Insert(ctx, CollKeywords, k); err != nil {
		return model.Keyword{}, err
	}
	return k, nil
}

func (r *KeywordRepo) Delete(ctx context.Context, id string) error {
	n, err := r.Store.Delete(ctx, CollKeywords, docstore.Filter{"id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *KeywordRepo) Count(ctx context.Context) (int64, error) {
	return r.Store.Count(ctx, CollKeywords, nil)
}
