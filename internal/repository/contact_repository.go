package repository

import (
	"context"

	"github.com/srinbasjoys/TEAP/internal/docstore"
	"github.com/srinbasjoys/TEAP/internal/model"
)

type ContactRepo struct{ Store docstore.Store }

func NewContactRepo(s docstore.Store) *ContactRepo { return &ContactRepo{Store: s} }

// Create stores a new submission with status "new".
func (r *ContactRepo) Create(ctx context.Context, s model.ContactSubmission) (model.ContactSubmission, error) {
	s.ID = newID()
	s.SubmittedAt = model.Now()
	s.Status = model.ContactStatusNew
	if err := r.Store.Insert(ctx, CollContacts, s); err != nil {
		return model.ContactSubmission{}, err
	}
	return s, nil
}

// List returns submissions newest first.
func (r *ContactRepo) List(ctx context.Context) ([]model.ContactSubmission, error) {
	var out []model.ContactSubmission
	err := r.Store.FindMany(ctx, CollContacts, nil, docstore.FindOptions{
		Sort: []docstore.SortField{docstore.Desc("submitted_at")},
	}, &out)
	return out, err
}
