// Package service holds the outbound side effects of a contact submission:
// the notification email, the chat webhook and the broker event.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/srinbasjoys/TEAP/internal/model"
	q "github.com/srinbasjoys/TEAP/internal/queue"
)

// Sink outcomes reported in NotifyResult.
const (
	StatusSent    = "sent"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// NotifyResult records what happened to each sink.
type NotifyResult struct {
	Email  string
	Chat   string
	Broker string
}

// Notifier fans a stored submission out to email, chat and the broker. Any
// sink may be nil, in which case it is skipped.
type Notifier struct {
	Mailer    Mailer
	MailTo    string
	Chat      Chat
	Publisher Publisher
	Logger    echo.Logger
	// Timeout bounds each sink separately.
	Timeout time.Duration
}

// NotifyContact runs the sinks one after another. Failures are logged and
// reflected in the result; they are never returned.
func (n *Notifier) NotifyContact(ctx context.Context, s model.ContactSubmission) NotifyResult {
	res := NotifyResult{Email: StatusSkipped, Chat: StatusSkipped, Broker: StatusSkipped}

	if n.Mailer != nil && n.MailTo != "" {
		res.Email = n.run(ctx, "email", func(ctx context.Context) error {
			body, err := RenderContactEmail(s)
			if err != nil {
				return err
			}
			return n.Mailer.SendHTML(ctx, n.MailTo, ContactEmailSubject(s), body)
		})
	} else {
		n.Logger.Warn("notify: mail relay not configured, skipping email")
	}

	if n.Chat != nil {
		res.Chat = n.run(ctx, "chat", func(ctx context.Context) error {
			return n.Chat.Send(ctx, RenderContactChat(s))
		})
	}

	if n.Publisher != nil {
		res.Broker = n.run(ctx, "broker", func(ctx context.Context) error {
			return n.Publisher.PublishContactSubmitted(ctx, q.ContactSubmittedEvent{
				SubmissionID: s.ID,
				Name:         s.Name,
				Email:        s.Email,
				Company:      deref(s.Company),
				Phone:        deref(s.Phone),
				Message:      s.Message,
				SubmittedAt:  s.SubmittedAt.String(),
				EmailSent:    res.Email == StatusSent,
				ChatSent:     res.Chat == StatusSent,
			})
		})
	}

	n.Logger.Infof("contact %s notified: email=%s chat=%s broker=%s", s.ID, res.Email, res.Chat, res.Broker)
	return res
}

func (n *Notifier) run(ctx context.Context, sink string, fn func(context.Context) error) string {
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := fn(ctx)
	switch {
	case err == nil:
		return StatusSent
	case errors.Is(err, ErrWebhookDisabled):
		n.Logger.Warnf("notify: %s skipped: %v", sink, err)
		return StatusSkipped
	default:
		n.Logger.Errorf("notify: %s failed: %v", sink, err)
		return StatusFailed
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
