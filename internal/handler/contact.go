package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/srinbasjoys/TEAP/internal/model"
	"github.com/srinbasjoys/TEAP/internal/repository"
	"github.com/srinbasjoys/TEAP/internal/service"
)

// ContactNotifier is the side effect run after a submission is stored.
type ContactNotifier interface {
	NotifyContact(ctx context.Context, s model.ContactSubmission) service.NotifyResult
}

type ContactHandler struct {
	Contacts *repository.ContactRepo
	Notifier ContactNotifier
}

func NewContactHandler(r *repository.ContactRepo, n ContactNotifier) *ContactHandler {
	return &ContactHandler{Contacts: r, Notifier: n}
}

type contactReq struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Company *string `json:"company"`
	Phone   *string `json:"phone"`
	Message string  `json:"message"`
}

func (r *contactReq) validate() fieldErrors {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	f := fieldErrors{}
	f.required("name", r.Name)
	f.maxLen("name", r.Name, 200)
	f.email("email", r.Email)
	f.required("message", r.Message)
	f.maxLen("message", r.Message, 10000)
	if r.Company != nil {
		f.maxLen("company", *r.Company, 200)
	}
	if r.Phone != nil {
		f.maxLen("phone", *r.Phone, 50)
	}
	return f
}

// Submit stores the submission, then notifies. Notification outcome never
// changes the response.
func (h *ContactHandler) Submit(c echo.Context) error {
	var req contactReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if f := req.validate(); len(f) > 0 {
		return validationFailed(c, f)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	s, err := h.Contacts.Create(ctx, model.ContactSubmission{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		return internalError(c, "store contact", err)
	}

	if h.Notifier != nil {
		// A client hanging up after the write must not cancel delivery.
		h.Notifier.NotifyContact(context.WithoutCancel(c.Request().Context()), s)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *ContactHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	list, err := h.Contacts.List(ctx)
	if err != nil {
		return internalError(c, "list contacts", err)
	}
	return c.JSON(http.StatusOK, list)
}
