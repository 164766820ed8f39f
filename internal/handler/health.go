package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether the backing store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	Store Pinger
}

func NewHealthHandler(p Pinger) *HealthHandler { return &HealthHandler{Store: p} }

// Check serves load balancers. It answers plain "ok" while the
// store is reachable and 503 otherwise.
func (h *HealthHandler) Check(c echo.Context) error {
	if h.Store != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.Store.Ping(ctx); err != nil {
			c.Logger().Errorf("health: store ping: %v", err)
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "database unavailable"})
		}
	}
	return c.String(http.StatusOK, "ok")
}
