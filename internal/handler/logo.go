package handler

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/srinbasjoys/TEAP/internal/middleware"
	"github.com/srinbasjoys/TEAP/internal/model"
	"github.com/srinbasjoys/TEAP/internal/repository"
)

// LogoFile is the name of the served logo inside the logo directory.
const LogoFile = "logo.png"

// LogoPublicPath is where the frontend loads the logo from.
const LogoPublicPath = "/" + LogoFile

type LogoHandler struct {
	Logos    *repository.LogoRepo
	Dir      string
	MaxBytes int64
}

func NewLogoHandler(r *repository.LogoRepo, dir string, maxBytes int64) *LogoHandler {
	return &LogoHandler{Logos: r, Dir: dir, MaxBytes: maxBytes}
}

// Upload validates the part's declared MIME type before touching the disk,
// replaces the served file and appends one history row.
func (h *LogoHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return validationFailed(c, fieldErrors{"file": "required"})
	}
	ctype := fh.Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ctype, "image/") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file must be an image"})
	}
	if h.MaxBytes > 0 && fh.Size > h.MaxBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file too large"})
	}

	src, err := fh.Open()
	if err != nil {
		return internalError(c, "open upload", err)
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return internalError(c, "read upload", err)
	}

	if err := h.writeLogo(data); err != nil {
		return internalError(c, "write logo", err)
	}

	entry := model.Logo{
		Filename:    filepath.Base(fh.Filename),
		Path:        LogoPublicPath,
		ContentType: ctype,
		Size:        int64(len(data)),
	}
	if admin, ok := middleware.CurrentAdmin(c); ok {
		entry.UploadedBy = admin.Email
	}
	// Formats without a registered decoder (e.g. SVG) are stored without
	// dimensions.
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		entry.Width, entry.Height = cfg.Width, cfg.Height
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	if _, err := h.Logos.Append(ctx, entry); err != nil {
		return internalError(c, "append logo history", err)
	}
	c.Logger().Infof("logo uploaded by %s: %s", entry.UploadedBy, entry.Filename)
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Logo uploaded successfully",
		"path":     LogoPublicPath,
		"filename": entry.Filename,
	})
}

// writeLogo replaces the served file through a rename so readers never see
// a partial image.
func (h *LogoHandler) writeLogo(data []byte) error {
	if err := os.MkdirAll(h.Dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(h.Dir, ".logo-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(h.Dir, LogoFile))
}

// Current returns the latest history row or the default location.
func (h *LogoHandler) Current(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	l, err := h.Logos.Current(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusOK, echo.Map{"path": LogoPublicPath, "filename": LogoFile})
		}
		return internalError(c, "current logo", err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *LogoHandler) History(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	list, err := h.Logos.History(ctx, repository.HistoryLimit)
	if err != nil {
		return internalError(c, "logo history", err)
	}
	return c.JSON(http.StatusOK, list)
}

// Serve streams the uploaded file at GET /logo.png.
func (h *LogoHandler) Serve(c echo.Context) error {
	path := filepath.Join(h.Dir, LogoFile)
	if _, err := os.Stat(path); err != nil {
		return notFound(c, "logo")
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
	return c.File(path)
}
