package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/srinbasjoys/TEAP/internal/model"
	"github.com/srinbasjoys/TEAP/internal/repository"
)

type SEOHandler struct {
	SEO *repository.SEORepo
}

func NewSEOHandler(r *repository.SEORepo) *SEOHandler { return &SEOHandler{SEO: r} }

type seoReq struct {
	Page        string          `json:"page"`
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Keywords    *string         `json:"keywords"`
	OGImage     *string         `json:"og_image"`
	JSONLD      json.RawMessage `json:"json_ld"`
}

func (r seoReq) validate() fieldErrors {
	f := fieldErrors{}
	f.required("page", r.Page)
	f.maxLen("page", r.Page, 200)
	if ld := bytes.TrimSpace(r.JSONLD); len(ld) > 0 && !bytes.Equal(ld, []byte("null")) && ld[0] != '{' {
		f["json_ld"] = "must be an object"
	}
	return f
}

func (r seoReq) settings() model.SEOSettings {
	s := model.SEOSettings{
		Page:        r.Page,
		Title:       r.Title,
		Description: r.Description,
		Keywords:    r.Keywords,
		OGImage:     r.OGImage,
	}
	if ld := bytes.TrimSpace(r.JSONLD); len(ld) > 0 && !bytes.Equal(ld, []byte("null")) {
		s.JSONLD = ld
	}
	return s
}

func (h *SEOHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	list, err := h.SEO.List(ctx)
	if err != nil {
		return internalError(c, "list seo", err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *SEOHandler) Get(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	s, err := h.SEO.GetByPage(ctx, c.Param("page"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "SEO settings")
		}
		return internalError(c, "get seo", err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *SEOHandler) Create(c echo.Context) error {
	var req seoReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if f := req.validate(); len(f) > 0 {
		return validationFailed(c, f)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	s, err := h.SEO.Create(ctx, req.settings())
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "SEO settings already exist for this page"})
		}
		return internalError(c, "create seo", err)
	}
	return c.JSON(http.StatusCreated, s)
}

// Upsert replaces the settings of the page named in the path. A page in the
// body is ignored.
func (h *SEOHandler) Upsert(c echo.Context) error {
	var req seoReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	req.Page = c.Param("page")
	if f := req.validate(); len(f) > 0 {
		return validationFailed(c, f)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	s, err := h.SEO.Upsert(ctx, req.settings())
	if err != nil {
		return internalError(c, "upsert seo", err)
	}
	return c.JSON(http.StatusOK, s)
}
