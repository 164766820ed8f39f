package router

import (
	"github.com/labstack/echo/v4"

	"github.com/srinbasjoys/TEAP/internal/middleware"
	"github.com/srinbasjoys/TEAP/internal/utils"
)

// RegisterAdmin registers endpoints that require an ADMIN access token.
// Successful writes purge the response cache so public reads see them.
func RegisterAdmin(e *echo.Echo, opts Options, h Handlers) {
	admin := []echo.MiddlewareFunc{
		middleware.JWTAuth(opts.Config.JWTSecret, opts.Admins),
		middleware.RequireRole(utils.RoleAdmin),
		middleware.PurgeOnWrite(opts.Cache, opts.Redis),
	}
	api := e.Group("/api")

	api.GET("/auth/me", h.Auth.Me, admin...)

	api.POST("/seo", h.SEO.Create, admin...)
	api.PUT("/seo/:page", h.SEO.Upsert, admin...)

	api.PUT("/robots-txt", h.Robots.Put, admin...)

	api.POST("/blogs", h.Blogs.Create, admin...)
	api.PUT("/blogs/:slug", h.Blogs.Update, admin...)
	api.DELETE("/blogs/:slug", h.Blogs.Delete, admin...)

	api.GET("/keywords", h.Keywords.List, admin...)
	api.POST("/keywords", h.Keywords.Create, admin...)
	api.DELETE("/keywords/:id", h.Keywords.Delete, admin...)

	api.GET("/contact/submissions", h.Contact.List, admin...)

	api.POST("/logo/upload", h.Logo.Upload, admin...)
	api.GET("/logo/history", h.Logo.History, admin...)

	api.GET("/analytics", h.Analytics.Summary, admin...)
}
