// Package handler implements the HTTP endpoints. Handlers bind and validate
// input, call a repository with a bounded context and map repository errors
// onto status codes.
package handler

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// dbTimeout bounds every store call made while serving a request.
const dbTimeout = 5 * time.Second

func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// fieldErrors collects per-field validation failures.
type fieldErrors map[string]string

func (f fieldErrors) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		f[field] = "required"
	}
}

func (f fieldErrors) email(field, value string) {
	if value == "" {
		f[field] = "required"
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		f[field] = "invalid email address"
	}
}

func (f fieldErrors) maxLen(field, value string, n int) {
	if len(value) > n {
		f[field] = "too long"
	}
}

func validationFailed(c echo.Context, f fieldErrors) error {
	return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "validation failed", "fields": f})
}

func badBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
}

// internalError logs err and answers with a generic 500.
func internalError(c echo.Context, op string, err error) error {
	c.Logger().Errorf("%s: %v", op, err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

func notFound(c echo.Context, what string) error {
	return c.JSON(http.StatusNotFound, echo.Map{"error": what + " not found"})
}

// message is the body of delete responses.
func message(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}
