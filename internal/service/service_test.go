package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/srinbasjoys/TEAP/internal/model"
	q "github.com/srinbasjoys/TEAP/internal/queue"
)

type fakeMailer struct {
	err               error
	to, subject, body string
	calls             int
}

func (f *fakeMailer) SendHTML(_ context.Context, to, subject, body string) error {
	f.calls++
	f.to, f.subject, f.body = to, subject, body
	return f.err
}

type fakePublisher struct {
	err    error
	events []q.ContactSubmittedEvent
}

func (f *fakePublisher) PublishContactSubmitted(_ context.Context, ev q.ContactSubmittedEvent) error {
	f.events = append(f.events, ev)
	return f.err
}

func testSubmission() model.ContactSubmission {
	company := "Acme & Sons"
	return model.ContactSubmission{
		ID:          "sub-1",
		Name:        "Ada <b>Lovelace</b>",
		Email:       "ada@example.com",
		Company:     &company,
		Message:     "<script>alert(1)</script>Hello",
		SubmittedAt: model.NewTimestamp(time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)),
		Status:      model.ContactStatusNew,
	}
}

func TestRenderContactEmailEscapes(t *testing.T) {
	body, err := RenderContactEmail(testSubmission())
	if err != nil {
		t.Fatalf("RenderContactEmail failed: %v", err)
	}
	if strings.Contains(body, "<script>") || strings.Contains(body, "<b>Lovelace") {
		t.Errorf("user input must be escaped: %s", body)
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Error("expected escaped script tag")
	}
	if !strings.Contains(body, "<strong>Phone:</strong> Not provided") {
		t.Error("expected placeholder for missing phone")
	}
	if !strings.Contains(body, "2024-05-06 07:08:09 UTC") {
		t.Error("expected submission time")
	}
	if got := ContactEmailSubject(testSubmission()); got != "New Contact Form Submission from Ada <b>Lovelace</b>" {
		t.Errorf("unexpected subject %q", got)
	}
}

func TestRenderContactChat(t *testing.T) {
	text := RenderContactChat(testSubmission())
	if strings.Contains(text, "<script>") || strings.Contains(text, "<b>") {
		t.Errorf("markup must be stripped: %q", text)
	}
	for _, want := range []string{"*Name:* Ada Lovelace", "*Company:* Acme &amp; Sons", "*Phone:* Not provided", "Hello"} {
		if !strings.Contains(text, want) {
			t.Errorf("chat text missing %q: %q", want, text)
		}
	}
}

func TestRenderContactChatKeepsPunctuation(t *testing.T) {
	company := "O'Reilly & Sons"
	s := testSubmission()
	s.Name = "Dan O'Brien"
	s.Company = &company
	s.Message = `I'd like a "quote" for 2 < 3 > 1`

	text := RenderContactChat(s)
	for _, want := range []string{
		"*Name:* Dan O'Brien",
		"*Company:* O'Reilly &amp; Sons",
		`I'd like a "quote" for 2 &lt; 3 &gt; 1`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("chat text missing %q: %q", want, text)
		}
	}
	for _, bad := range []string{"&#39;", "&#34;", "&quot;", "&amp;amp;"} {
		if strings.Contains(text, bad) {
			t.Errorf("chat text must not contain %q: %q", bad, text)
		}
	}
}

func TestWebhookChatSend(t *testing.T) {
	var got ChatPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected content type %q", r.Header.Get("Content-Type"))
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := NewWebhookChat(srv.URL).Send(context.Background(), "hi"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if got.Text != "hi" || got.Username != "TechResona Contact Form" || got.IconEmoji != ":email:" {
		t.Errorf("unexpected payload %+v", got)
	}
}

func TestWebhookChatFailuresAndSkips(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if err := NewWebhookChat(srv.URL).Send(context.Background(), "hi"); err == nil {
		t.Error("expected error on 500")
	}

	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"placeholder", "https://hooks.slack.com/services/YOUR_WEBHOOK_URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewWebhookChat(tt.url).Send(context.Background(), "hi")
			if !errors.Is(err, ErrWebhookDisabled) {
				t.Errorf("expected ErrWebhookDisabled, got %v", err)
			}
		})
	}
}

func TestNotifyContactAllSinks(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	mailer := &fakeMailer{}
	pub := &fakePublisher{}
	n := &Notifier{
		Mailer:    mailer,
		MailTo:    "info@example.com",
		Chat:      NewWebhookChat(srv.URL),
		Publisher: pub,
		Logger:    log.New("test"),
	}
	res := n.NotifyContact(context.Background(), testSubmission())
	if res != (NotifyResult{Email: StatusSent, Chat: StatusSent, Broker: StatusSent}) {
		t.Errorf("unexpected result %+v", res)
	}
	if mailer.to != "info@example.com" || !strings.HasPrefix(mailer.subject, "New Contact Form Submission from") {
		t.Errorf("unexpected mail %q %q", mailer.to, mailer.subject)
	}
	if hits != 1 {
		t.Errorf("expected 1 webhook call, got %d", hits)
	}
	if len(pub.events) != 1 || pub.events[0].SubmissionID != "sub-1" || !pub.events[0].EmailSent || !pub.events[0].ChatSent {
		t.Errorf("unexpected events %+v", pub.events)
	}
}

func TestNotifyContactFailuresAreContained(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	pub := &fakePublisher{err: errors.New("broker down")}
	n := &Notifier{
		Mailer:    &fakeMailer{err: errors.New("relay down")},
		MailTo:    "info@example.com",
		Chat:      NewWebhookChat(srv.URL),
		Publisher: pub,
		Logger:    log.New("test"),
	}
	res := n.NotifyContact(context.Background(), testSubmission())
	if res != (NotifyResult{Email: StatusFailed, Chat: StatusFailed, Broker: StatusFailed}) {
		t.Errorf("unexpected result %+v", res)
	}
	if len(pub.events) != 1 || pub.events[0].EmailSent || pub.events[0].ChatSent {
		t.Errorf("event should record failed deliveries: %+v", pub.events)
	}
}

func TestNotifyContactSkipsUnconfigured(t *testing.T) {
	n := &Notifier{Chat: NewWebhookChat(""), Logger: log.New("test")}
	res := n.NotifyContact(context.Background(), testSubmission())
	if res != (NotifyResult{Email: StatusSkipped, Chat: StatusSkipped, Broker: StatusSkipped}) {
		t.Errorf("unexpected result %+v", res)
	}
}
