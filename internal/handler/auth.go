package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/srinbasjoys/TEAP/internal/config"
	"github.com/srinbasjoys/TEAP/internal/middleware"
	"github.com/srinbasjoys/TEAP/internal/repository"
	"github.com/srinbasjoys/TEAP/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Admins *repository.AdminRepo
}

func NewAuthHandler(cfg config.Config, a *repository.AdminRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Admins: a}
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (r *credentialsReq) validate() fieldErrors {
	r.Email = repository.NormalizeEmail(r.Email)
	f := fieldErrors{}
	f.email("email", r.Email)
	if r.Password == "" {
		f["password"] = "required"
	}
	return f
}

func (h *AuthHandler) issue(c echo.Context, email string) error {
	tok, err := utils.NewAccessToken(h.Cfg.JWTSecret, email, utils.RoleAdmin, h.Cfg.AccessTTLMin)
	if err != nil {
		return internalError(c, "issue token", err)
	}
	return c.JSON(http.StatusOK, tokenResp{AccessToken: tok.Token, TokenType: "bearer"})
}

// Register creates the admin and returns a token immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if f := req.validate(); len(f) > 0 {
		return validationFailed(c, f)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if _, err := h.Admins.Create(ctx, req.Email, req.Password, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		return internalError(c, "register", err)
	}
	return h.issue(c, req.Email)
}

// Login verifies credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if f := req.validate(); len(f) > 0 {
		return validationFailed(c, f)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	a, err := h.Admins.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid email or password"})
		}
		return internalError(c, "login", err)
	}
	if !utils.VerifyPassword(a.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid email or password"})
	}
	return h.issue(c, a.Email)
}

// Me returns the authenticated admin without the password hash.
func (h *AuthHandler) Me(c echo.Context) error {
	a, ok := middleware.CurrentAdmin(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, a.View())
}
