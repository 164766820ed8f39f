// Package router builds the Echo instance and registers every route.
package router

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	gbytes "github.com/labstack/gommon/bytes"
	"github.com/redis/go-redis/v9"

	"github.com/srinbasjoys/TEAP/internal/config"
	"github.com/srinbasjoys/TEAP/internal/handler"
	"github.com/srinbasjoys/TEAP/internal/middleware"
)

// Handlers groups the endpoint implementations the router mounts.
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	SEO       *handler.SEOHandler
	Robots    *handler.RobotsHandler
	Blogs     *handler.BlogHandler
	Keywords  *handler.KeywordHandler
	Contact   *handler.ContactHandler
	Logo      *handler.LogoHandler
	Sitemap   *handler.SitemapHandler
	Analytics *handler.AnalyticsHandler
}

// Options carries the shared infrastructure routes depend on. A nil Redis
// client turns caching and rate limiting into no-ops.
type Options struct {
	Config    config.Config
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Redis     *redis.Client
	Admins    middleware.AdminLookup
}

// New returns an Echo instance with global middleware and all routes.
func New(opts Options, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = jsonErrorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			c.Logger().Infof("%s %s %d %s %s", v.Method, v.URI, v.Status, v.Latency.Round(time.Microsecond), v.RemoteIP)
			return nil
		},
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: opts.Config.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	// Uploads are the largest bodies; leave headroom for multipart framing.
	e.Use(echomw.BodyLimit(gbytes.Format(opts.Config.MaxUploadBytes + 1<<20)))

	RegisterRoutes(e, opts, h)
	RegisterPublic(e, opts, h)
	RegisterAdmin(e, opts, h)
	return e
}

// jsonErrorHandler renders Echo errors as {"error": msg}.
func jsonErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := "internal error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		} else {
			msg = http.StatusText(code)
		}
	} else {
		c.Logger().Error(err)
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, echo.Map{"error": msg})
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

// RegisterRoutes registers the root-level endpoints crawlers and load
// balancers hit.
func RegisterRoutes(e *echo.Echo, opts Options, h Handlers) {
	cache := middleware.NewRedisCache(opts.Cache, opts.Redis)

	e.GET("/healthz", h.Health.Check)
	e.GET("/sitemap.xml", h.Sitemap.XML, cache)
	e.GET("/robots.txt", h.Robots.Text, cache)
	e.GET(handler.LogoPublicPath, h.Logo.Serve)
}
