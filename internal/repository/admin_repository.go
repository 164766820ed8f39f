package repository

import (
	"context"
	"strings"

	"github.com/srinbasjoys/TEAP/internal/docstore"
	"github.com/srinbasjoys/TEAP/internal/model"
	"github.com/srinbasjoys/TEAP/internal/utils"
)

type AdminRepo struct{ Store docstore.Store }

func NewAdminRepo(s docstore.Store) *AdminRepo { return &AdminRepo{Store: s} }

// NormalizeEmail trims and lower-cases an address so lookups are exact.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create hashes password and stores a new admin. The uniqueness check and the
// insert are separate store calls; a single-admin site tolerates the gap.
func (r *AdminRepo) Create(ctx context.Context, email, password string, cost int) (model.Admin, error) {
	email = NormalizeEmail(email)
	n, err := r.Store.Count(ctx, CollAdmins, docstore.Filter{"email": email})
	if err != nil {
		return model.Admin{}, err
	}
	if n > 0 {
		return model.Admin{}, ErrEmailExists
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.Admin{}, err
	}
	a := model.Admin{
		ID:           newID(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    model.Now(),
	}
	if err := r.Store.Insert(ctx, CollAdmins, a); err != nil {
		return model.Admin{}, err
	}
	return a, nil
}

// GetByEmail fetches an admin by normalized email.
func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (model.Admin, error) {
	var a model.Admin
	err := r.Store.FindOne(ctx, CollAdmins, docstore.Filter{"email": NormalizeEmail(email)}, &a)
	return a, notFound(err)
}
