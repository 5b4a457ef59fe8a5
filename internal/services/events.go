package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"logbiz/recruitment-api/internal/config"
)

// Routing keys for lifecycle events consumed by the notifier.
const (
	EventAssignmentAssigned = "assignment.assigned"
	EventSubmissionCreated  = "submission.created"
	EventReviewCompleted    = "review.completed"
	EventCertificateIssued  = "certificate.issued"
)

// EventPublisher emits lifecycle events for external consumers. Publishing is
// best-effort: a broker failure is logged, never propagated, so no request
// fails because a notification could not be queued.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload map[string]interface{})
	Close() error
}

type amqpPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewEventPublisher(cfg config.AMQPConfig) (EventPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // auto-delete
		false,        // internal
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &amqpPublisher{
		conn:     conn,
		channel:  channel,
		exchange: cfg.Exchange,
	}, nil
}

// Publish implements EventPublisher.
func (p *amqpPublisher) Publish(ctx context.Context, routingKey string, payload map[string]interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("⚠️  Failed to encode event %s: %v\n", routingKey, err)
		return
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(
		publishCtx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		log.Printf("⚠️  Failed to publish event %s: %v\n", routingKey, err)
	}
}

// Close implements EventPublisher.
func (p *amqpPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		return err
	}
	return p.conn.Close()
}

// noopPublisher is used when no broker is configured.
type noopPublisher struct{}

func NewNoopPublisher() EventPublisher {
	return &noopPublisher{}
}

// Publish implements EventPublisher.
func (*noopPublisher) Publish(ctx context.Context, routingKey string, payload map[string]interface{}) {
}

// Close implements EventPublisher.
func (*noopPublisher) Close() error {
	return nil
}
