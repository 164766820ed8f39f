package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/wneessen/go-mail"

	"github.com/srinbasjoys/TEAP/internal/model"
)

// Mailer delivers one HTML message.
type Mailer interface {
	SendHTML(ctx context.Context, to, subject, body string) error
}

// SMTPConfig addresses the mail relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // defaults to Username
}

// SMTPMailer submits over STARTTLS, authenticating with PLAIN when a
// username is configured.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendHTML(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("mail: from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail: to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("mail: client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	return nil
}

var contactEmailTmpl = template.Must(template.New("contact").Parse(`<html>
  <body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <h2 style="color: #4F46E5;">New Contact Form Submission</h2>
    <div style="background-color: #f9fafb; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <p><strong>Name:</strong> {{.Name}}</p>
      <p><strong>Email:</strong> {{.Email}}</p>
      <p><strong>Company:</strong> {{.Company}}</p>
      <p><strong>Phone:</strong> {{.Phone}}</p>
      <p><strong>Message:</strong></p>
      <p style="background-color: white; padding: 15px; border-radius: 5px; border-left: 4px solid #4F46E5;">{{.Message}}</p>
    </div>
    <p style="color: #6b7280; font-size: 14px;">Submitted at: {{.SubmittedAt}}</p>
  </body>
</html>
`))

type contactView struct {
	Name, Email, Company, Phone, Message, SubmittedAt string
}

func newContactView(s model.ContactSubmission) contactView {
	return contactView{
		Name:        s.Name,
		Email:       s.Email,
		Company:     orNotProvided(s.Company),
		Phone:       orNotProvided(s.Phone),
		Message:     s.Message,
		SubmittedAt: s.SubmittedAt.UTC().Format("2006-01-02 15:04:05 UTC"),
	}
}

func orNotProvided(s *string) string {
	if s == nil || *s == "" {
		return "Not provided"
	}
	return *s
}

// ContactEmailSubject is the subject line of the notification email.
func ContactEmailSubject(s model.ContactSubmission) string {
	return "New Contact Form Submission from " + s.Name
}

// RenderContactEmail renders the HTML notification body. Every field is
// escaped by html/template.
func RenderContactEmail(s model.ContactSubmission) (string, error) {
	var buf bytes.Buffer
	if err := contactEmailTmpl.Execute(&buf, newContactView(s)); err != nil {
		return "", fmt.Errorf("mail: render: %w", err)
	}
	return buf.String(), nil
}
