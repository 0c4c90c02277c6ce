package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"artflight/internal/mail"
	"artflight/internal/metrics"
	"artflight/internal/model"
	"artflight/internal/platform/rabbitmq"
)

const sendTimeout = 30 * time.Second

// MailWorker drains the mail outbox queue and hands each message to a sender.
type MailWorker struct {
	conn      *amqp.Connection
	sender    mail.Sender
	queueName string
	log       *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewMailWorker(conn *amqp.Connection, sender mail.Sender, queueName string, log *slog.Logger) *MailWorker {
	return &MailWorker{
		conn:      conn,
		sender:    sender,
		queueName: queueName,
		log:       log.With("component", "mail_worker", "queue", queueName),
	}
}

func (w *MailWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if err := rabbitmq.DeclareDurableQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		cancel()
		return err
	}
	if err := ch.Qos(1, 0, false); err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("set worker qos failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					w.log.Warn("delivery channel closed")
					return
				}
				w.handle(workerCtx, d)
			}
		}
	}()

	w.log.Info("mail worker started")
	return nil
}

// handle acks delivered mail, drops undecodable or unbuildable messages and
// requeues on transport failure.
func (w *MailWorker) handle(ctx context.Context, d amqp.Delivery) {
	var msg model.MailMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		w.log.Error("decode mail failed", "error", err)
		metrics.MailDeliveries.WithLabelValues("dropped").Inc()
		_ = d.Nack(false, false)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := w.sender.Send(sendCtx, msg); err != nil {
		if errors.Is(err, mail.ErrInvalidMessage) {
			w.log.Error("drop undeliverable mail", "error", err, "subject", msg.Subject)
			metrics.MailDeliveries.WithLabelValues("dropped").Inc()
			_ = d.Nack(false, false)
			return
		}
		w.log.Error("send mail failed", "error", err, "subject", msg.Subject)
		metrics.MailDeliveries.WithLabelValues("requeued").Inc()
		_ = d.Nack(false, true)
		return
	}

	metrics.MailDeliveries.WithLabelValues("sent").Inc()
	_ = d.Ack(false)
}

func (w *MailWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
