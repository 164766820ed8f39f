package repository

import (
	"context"

	"github.com/srinbasjoys/TEAP/internal/docstore"
	"github.com/srinbasjoys/TEAP/internal/model"
)

type RobotsRepo struct{ Store docstore.Store }

func NewRobotsRepo(s docstore.Store) *RobotsRepo { return &RobotsRepo{Store: s} }

// Current returns the newest stored override, or ErrNotFound.
func (r *RobotsRepo) Current(ctx context.Context) (model.RobotsTxt, error) {
	var rt model.RobotsTxt
	err := r.Store.FindOne(ctx, CollRobotsTxt, nil, &rt, docstore.Desc("updated_at"))
	return rt, notFound(err)
}

// Replace deletes every stored row and inserts content as the only one.
// Readers may briefly see no row between the two calls and fall back to the
// default body.
func (r *RobotsRepo) Replace(ctx context.Context, content string) (model.RobotsTxt, error) {
	if _, err := r.Store.Delete(ctx, CollRobotsTxt, nil); err != nil {
		return model.RobotsTxt{}, err
	}
	rt := model.RobotsTxt{ID: newID(), Content: content, UpdatedAt: model.Now()}
	if err := r.Store.Insert(ctx, CollRobotsTxt, rt); err != nil {
		return model.RobotsTxt{}, err
	}
	return rt, nil
}

func (r *RobotsRepo) Count(ctx context.Context) (int64, error) {
	return r.Store.Count(ctx, CollRobotsTxt, nil)
}
