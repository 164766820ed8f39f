package handler

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/srinbasjoys/TEAP/internal/model"
	"github.com/srinbasjoys/TEAP/internal/repository"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type BlogHandler struct {
	Blogs *repository.BlogRepo
}

func NewBlogHandler(r *repository.BlogRepo) *BlogHandler { return &BlogHandler{Blogs: r} }

type blogCreateReq struct {
	Slug            string  `json:"slug"`
	Title           string  `json:"title"`
	Excerpt         string  `json:"excerpt"`
	Content         string  `json:"content"`
	Keywords        string  `json:"keywords"`
	MetaDescription string  `json:"meta_description"`
	Author          *string `json:"author"`
	Published       *bool   `json:"published"`
	FeaturedImage   *string `json:"featured_image"`
}

func (r blogCreateReq) validate() fieldErrors {
	f := fieldErrors{}
	if !slugPattern.MatchString(r.Slug) {
		f["slug"] = "must be lower-case letters, digits and single hyphens"
	}
	f.maxLen("slug", r.Slug, 200)
	f.required("title", r.Title)
	f.required("excerpt", r.Excerpt)
	f.required("content", r.Content)
	f.required("keywords", r.Keywords)
	f.required("meta_description", r.MetaDescription)
	return f
}

// List serves GET /blogs. published_only defaults to true.
func (h *BlogHandler) List(c echo.Context) error {
	publishedOnly := true
	if v := c.QueryParam("published_only"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return validationFailed(c, fieldErrors{"published_only": "must be a boolean"})
		}
		publishedOnly = b
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	list, err := h.Blogs.List(ctx, publishedOnly)
	if err != nil {
		return internalError(c, "list blogs", err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *BlogHandler) Get(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	b, err := h.Blogs.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "blog")
		}
		return internalError(c, "get blog", err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *BlogHandler) Create(c echo.Context) error {
	var req blogCreateReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if f := req.validate(); len(f) > 0 {
		return validationFailed(c, f)
	}
	b := model.Blog{
		Slug:            req.Slug,
		Title:           req.Title,
		Excerpt:         req.Excerpt,
		Content:         req.Content,
		Keywords:        req.Keywords,
		MetaDescription: req.MetaDescription,
		Published:       true,
		FeaturedImage:   req.FeaturedImage,
	}
	if req.Author != nil {
		b.Author = *req.Author
	}
	if req.Published != nil {
		b.Published = *req.Published
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	created, err := h.Blogs.Create(ctx, b)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "blog with this slug already exists"})
		}
		return internalError(c, "create blog", err)
	}
	return c.JSON(http.StatusCreated, created)
}

// Update changes only the supplied fields.
func (h *BlogHandler) Update(c echo.Context) error {
	var p model.BlogPatch
	if err := c.Bind(&p); err != nil {
		return badBody(c)
	}
	p.UpdatedAt = nil
	if p.Title != nil {
		f := fieldErrors{}
		f.required("title", *p.Title)
		if len(f) > 0 {
			return validationFailed(c, f)
		}
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	b, err := h.Blogs.Update(ctx, c.Param("slug"), p)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "blog")
		}
		return internalError(c, "update blog", err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *BlogHandler) Delete(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Blogs.Delete(ctx, c.Param("slug")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "blog")
		}
		return internalError(c, "delete blog", err)
	}
	return message(c, "Blog deleted successfully")
}
