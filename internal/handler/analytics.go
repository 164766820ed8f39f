package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/srinbasjoys/TEAP/internal/model"
	"github.com/srinbasjoys/TEAP/internal/repository"
)

// recentUpdates is how many blog titles the dashboard lists.
const recentUpdates = 5

type AnalyticsHandler struct {
	SEO      *repository.SEORepo
	Blogs    *repository.BlogRepo
	Keywords *repository.KeywordRepo
}

func NewAnalyticsHandler(s *repository.SEORepo, b *repository.BlogRepo, k *repository.KeywordRepo) *AnalyticsHandler {
	return &AnalyticsHandler{SEO: s, Blogs: b, Keywords: k}
}

// Summary counts SEO rows, blogs (drafts included) and keywords, and lists
// the most recently updated blog titles.
func (h *AnalyticsHandler) Summary(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	var out model.Analytics
	var err error
	if out.TotalPages, err = h.SEO.Count(ctx); err != nil {
		return internalError(c, "count seo", err)
	}
	if out.TotalBlogs, err = h.Blogs.Count(ctx); err != nil {
		return internalError(c, "count blogs", err)
	}
	if out.TotalKeywords, err = h.Keywords.Count(ctx); err != nil {
		return internalError(c, "count keywords", err)
	}
	recent, err := h.Blogs.RecentlyUpdated(ctx, recentUpdates)
	if err != nil {
		return internalError(c, "recent blogs", err)
	}
	out.RecentUpdates = make([]string, 0, len(recent))
	for _, b := range recent {
		out.RecentUpdates = append(out.RecentUpdates, b.Title)
	}
	return c.JSON(http.StatusOK, out)
}
