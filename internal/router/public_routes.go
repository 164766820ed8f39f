package router

import (
	"github.com/labstack/echo/v4"

	"github.com/srinbasjoys/TEAP/internal/middleware"
)

// RegisterPublic registers unauthenticated /api endpoints. Read endpoints are
// cached; auth and contact are rate limited per client.
func RegisterPublic(e *echo.Echo, opts Options, h Handlers) {
	cache := middleware.NewRedisCache(opts.Cache, opts.Redis)
	limit := middleware.NewTokenBucket(opts.RateLimit, opts.Redis)

	api := e.Group("/api")

	api.POST("/auth/register", h.Auth.Register, limit)
	api.POST("/auth/login", h.Auth.Login, limit)

	api.GET("/seo", h.SEO.List, cache)
	api.GET("/seo/:page", h.SEO.Get, cache)

	api.GET("/robots-txt", h.Robots.Get, cache)

	api.GET("/blogs", h.Blogs.List, cache)
	api.GET("/blogs/:slug", h.Blogs.Get, cache)

	api.POST("/contact/submit", h.Contact.Submit, limit)

	api.GET("/logo/current", h.Logo.Current)

	api.GET("/sitemap/generate", h.Sitemap.XML, cache)
}
