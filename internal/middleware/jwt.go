package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/srinbasjoys/TEAP/internal/model"
	"github.com/srinbasjoys/TEAP/internal/repository"
	"github.com/srinbasjoys/TEAP/internal/utils"
)

// Context keys set by JWTAuth.
const (
	CtxAdmin  = "admin"
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// AdminLookup resolves a token subject to a stored admin.
type AdminLookup interface {
	GetByEmail(ctx context.Context, email string) (model.Admin, error)
}

// JWTAuth validates a Bearer access token and checks that its subject still
// exists. On success the admin record is available via c.Get("admin") and
// the raw claims via c.Get("user_id") and c.Get("role").
func JWTAuth(secret string, admins AdminLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			admin, err := admins.GetByEmail(ctx, claims.Subject)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "admin not found"})
				}
				c.Logger().Errorf("auth: admin lookup: %v", err)
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
			}

			c.Set(CtxAdmin, admin)
			c.Set(CtxUserID, claims.Subject)
			c.Set(CtxRole, claims.Role)
			return next(c)
		}
	}
}

// bearerToken extracts the credentials of an Authorization header. The
// scheme name is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// CurrentAdmin returns the admin placed in the context by JWTAuth.
func CurrentAdmin(c echo.Context) (model.Admin, bool) {
	a, ok := c.Get(CtxAdmin).(model.Admin)
	return a, ok
}
