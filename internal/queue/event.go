// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

// ContactSubmittedQueue is the durable queue contact events are routed to.
const ContactSubmittedQueue = "contact.submitted"

// ContactSubmittedEvent is published after a contact form submission is
// stored. It carries enough for downstream consumers to log or follow up
// without querying the primary store.
type ContactSubmittedEvent struct {
	SubmissionID string `json:"submission_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Company      string `json:"company,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Message      string `json:"message"`
	SubmittedAt  string `json:"submitted_at"`
	EmailSent    bool   `json:"email_sent"`
	ChatSent     bool   `json:"chat_sent"`
}
