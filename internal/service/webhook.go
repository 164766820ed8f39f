package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/srinbasjoys/TEAP/internal/model"
)

// ErrWebhookDisabled is returned when no usable webhook URL is configured.
var ErrWebhookDisabled = errors.New("chat webhook not configured")

// ChatPayload is the body posted to the chat webhook.
type ChatPayload struct {
	Text      string `json:"text"`
	Username  string `json:"username"`
	IconEmoji string `json:"icon_emoji"`
}

// Chat posts a message to an incoming-webhook URL.
type Chat interface {
	Send(ctx context.Context, text string) error
}

// WebhookChat is a Slack-compatible incoming webhook client.
type WebhookChat struct {
	URL    string
	Client *http.Client
}

func NewWebhookChat(url string) *WebhookChat {
	return &WebhookChat{URL: url, Client: &http.Client{Timeout: 10 * time.Second}}
}

// Enabled reports whether URL is set and not the template placeholder.
func (w *WebhookChat) Enabled() bool {
	return w.URL != "" && !strings.Contains(w.URL, "YOUR_WEBHOOK_URL")
}

func (w *WebhookChat) Send(ctx context.Context, text string) error {
	if !w.Enabled() {
		return ErrWebhookDisabled
	}
	body, err := json.Marshal(ChatPayload{
		Text:      text,
		Username:  "TechResona Contact Form",
		IconEmoji: ":email:",
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.Client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: post: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// chatStrip drops markup from user input.
var chatStrip = bluemonday.StrictPolicy()

// chatEscape applies the only escaping Slack message text understands.
var chatEscape = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// chatSafe strips tags, undoes the policy's entity encoding and re-escapes
// the three control characters, so quotes and apostrophes arrive as typed.
func chatSafe(s string) string {
	return chatEscape.Replace(html.UnescapeString(chatStrip.Sanitize(s)))
}

// RenderContactChat builds the plain-text chat message for a submission.
func RenderContactChat(s model.ContactSubmission) string {
	v := newContactView(s)
	var b strings.Builder
	b.WriteString(":new: *New Contact Form Submission*\n\n")
	fmt.Fprintf(&b, "*Name:* %s\n", chatSafe(v.Name))
	fmt.Fprintf(&b, "*Email:* %s\n", chatSafe(v.Email))
	fmt.Fprintf(&b, "*Company:* %s\n", chatSafe(v.Company))
	fmt.Fprintf(&b, "*Phone:* %s\n\n", chatSafe(v.Phone))
	fmt.Fprintf(&b, "*Message:*\n%s\n\n", chatSafe(v.Message))
	fmt.Fprintf(&b, "_Submitted at: %s_", v.SubmittedAt)
	return b.String()
}
