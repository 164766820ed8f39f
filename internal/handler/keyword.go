package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/srinbasjoys/TEAP/internal/model"
	"github.com/srinbasjoys/TEAP/internal/repository"
)

type KeywordHandler struct {
	Keywords *repository.KeywordRepo
}

func NewKeywordHandler(r *repository.KeywordRepo) *KeywordHandler {
	return &KeywordHandler{Keywords: r}
}

type keywordReq struct {
	Keyword      string  `json:"keyword"`
	Page         string  `json:"page"`
	Ranking      *int    `json:"ranking"`
	SearchVolume *int    `json:"search_volume"`
	Difficulty   *string `json:"difficulty"`
}

func (h *KeywordHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	list, err := h.Keywords.List(ctx)
	if err != nil {
		return internalError(c, "list keywords", err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *KeywordHandler) Create(c echo.Context) error {
	var req keywordReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	f := fieldErrors{}
	f.required("keyword", req.Keyword)
	f.required("page", req.Page)
	if req.Ranking != nil && *req.Ranking < 0 {
		f["ranking"] = "must not be negative"
	}
	if req.SearchVolume != nil && *req.SearchVolume < 0 {
		f["search_volume"] = "must not be negative"
	}
	if len(f) > 0 {
		return validationFailed(c, f)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	k, err := h.Keywords.Create(ctx, model.Keyword{
		Keyword:      req.Keyword,
		Page:         req.Page,
		Ranking:      req.Ranking,
		SearchVolume: req.SearchVolume,
		Difficulty:   req.Difficulty,
	})
	if err != nil {
		return internalError(c, "create keyword", err)
	}
	return c.JSON(http.StatusCreated, k)
}

func (h *KeywordHandler) Delete(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Keywords.Delete(ctx, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "keyword")
		}
		return internalError(c, "delete keyword", err)
	}
	return message(c, "Keyword deleted successfully")
}
