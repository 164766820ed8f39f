package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/srinbasjoys/TEAP/internal/repository"
	"github.com/srinbasjoys/TEAP/internal/sitemap"
)

type RobotsHandler struct {
	Robots  *repository.RobotsRepo
	BaseURL string
}

func NewRobotsHandler(r *repository.RobotsRepo, baseURL string) *RobotsHandler {
	return &RobotsHandler{Robots: r, BaseURL: baseURL}
}

// content returns the stored override or the generated default.
func (h *RobotsHandler) content(c echo.Context) (string, error) {
	ctx, cancel := dbCtx(c)
	defer cancel()
	rt, err := h.Robots.Current(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return sitemap.DefaultRobots(h.BaseURL), nil
	}
	if err != nil {
		return "", err
	}
	return rt.Content, nil
}

// Get serves GET /api/robots-txt as {"content": ...}.
func (h *RobotsHandler) Get(c echo.Context) error {
	body, err := h.content(c)
	if err != nil {
		return internalError(c, "get robots", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"content": body})
}

// Text serves GET /robots.txt.
func (h *RobotsHandler) Text(c echo.Context) error {
	body, err := h.content(c)
	if err != nil {
		return internalError(c, "robots.txt", err)
	}
	return c.String(http.StatusOK, body)
}

type robotsReq struct {
	Content *string `json:"content"`
}

// Put replaces the stored override.
func (h *RobotsHandler) Put(c echo.Context) error {
	var req robotsReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if req.Content == nil {
		return validationFailed(c, fieldErrors{"content": "required"})
	}
	if len(*req.Content) > 64<<10 {
		return validationFailed(c, fieldErrors{"content": "too long"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	rt, err := h.Robots.Replace(ctx, *req.Content)
	if err != nil {
		return internalError(c, "replace robots", err)
	}
	return c.JSON(http.StatusOK, rt)
}
