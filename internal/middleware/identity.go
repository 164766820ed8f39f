package middleware

import "github.com/labstack/echo/v4"

// currentUserID returns the token subject set by JWTAuth, or "anon" on
// public routes.
func currentUserID(c echo.Context) string {
	if s, ok := c.Get(CtxUserID).(string); ok && s != "" {
		return s
	}
	return "anon"
}
