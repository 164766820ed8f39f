package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/srinbasjoys/TEAP/internal/queue"
)

// Publisher sends domain events to RabbitMQ.
type Publisher interface {
	PublishContactSubmitted(ctx context.Context, ev q.ContactSubmittedEvent) error
}

// AMQPPublisher keeps one connection open and redials when it drops. Messages
// are persistent and go to the durable contact.submitted queue through the
// default exchange.
type AMQPPublisher struct {
	url string

	mu   sync.Mutex
	conn *amqp.Connection
}

func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{url: url}
}

func (p *AMQPPublisher) connection() (*amqp.Connection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn, nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}
	p.conn = conn
	return conn, nil
}

func (p *AMQPPublisher) PublishContactSubmitted(ctx context.Context, ev q.ContactSubmittedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event: %w", err)
	}
	conn, err := p.connection()
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq: channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(q.ContactSubmittedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: queue declare: %w", err)
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    ev.SubmissionID,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", q.ContactSubmittedQueue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq: publish: %w", err)
	}
	return nil
}

// Close closes the underlying connection if one is open.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	err := p.conn.Close()
	if errors.Is(err, amqp.ErrClosed) {
		return nil
	}
	return err
}
