package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"artflight/internal/model"
)

// MailPublisher puts outgoing mail on the outbox queue.
type MailPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewMailPublisher(conn *amqp.Connection, queueName string) *MailPublisher {
	return &MailPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *MailPublisher) Publish(ctx context.Context, msg model.MailMessage) error {
	if p.conn == nil || p.conn.IsClosed() {
		return fmt.Errorf("publish mail failed: rabbitmq connection closed")
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if err := DeclareDurableQueue(ch, p.queueName); err != nil {
		return err
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal mail payload failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish mail failed: %w", err)
	}
	return nil
}
