package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/srinbasjoys/TEAP/internal/repository"
	"github.com/srinbasjoys/TEAP/internal/sitemap"
)

type SitemapHandler struct {
	Blogs   *repository.BlogRepo
	BaseURL string
	Pages   []sitemap.Page
}

func NewSitemapHandler(b *repository.BlogRepo, baseURL string, pages []sitemap.Page) *SitemapHandler {
	if len(pages) == 0 {
		pages = sitemap.DefaultPages
	}
	return &SitemapHandler{Blogs: b, BaseURL: baseURL, Pages: pages}
}

// XML serves both GET /api/sitemap/generate and GET /sitemap.xml.
func (h *SitemapHandler) XML(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	posts, err := h.Blogs.Published(ctx)
	if err != nil {
		return internalError(c, "sitemap posts", err)
	}
	entries := make([]sitemap.Entry, 0, len(posts))
	for _, p := range posts {
		entries = append(entries, sitemap.Entry{Slug: p.Slug, UpdatedAt: p.UpdatedAt.Time})
	}
	out, err := sitemap.Generate(h.BaseURL, h.Pages, entries)
	if err != nil {
		return internalError(c, "sitemap render", err)
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationXMLCharsetUTF8, out)
}
