// Package mail delivers outgoing messages through SMTP or the process log.
package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gomail "github.com/wneessen/go-mail"

	"artflight/internal/model"
)

// ErrInvalidMessage marks a message that can never be delivered as built.
var ErrInvalidMessage = errors.New("invalid mail message")

type Sender interface {
	Send(ctx context.Context, msg model.MailMessage) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	UseTLS   bool
}

type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(ctx context.Context, msg model.MailMessage) error {
	m, err := buildMessage(s.cfg.From, msg)
	if err != nil {
		return err
	}

	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithTimeout(15 * time.Second),
	}
	if s.cfg.UseTLS {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.NoTLS))
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}

	client, err := gomail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("create smtp client failed: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send mail failed: %w", err)
	}
	return nil
}

// ConsoleSender writes messages to the log instead of delivering them.
type ConsoleSender struct {
	from string
	log  *slog.Logger
}

func NewConsoleSender(from string, log *slog.Logger) *ConsoleSender {
	return &ConsoleSender{from: from, log: log}
}

func (s *ConsoleSender) Send(_ context.Context, msg model.MailMessage) error {
	if _, err := buildMessage(s.from, msg); err != nil {
		return err
	}
	s.log.Info("outgoing mail",
		"from", s.from,
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}

func buildMessage(from string, msg model.MailMessage) (*gomail.Msg, error) {
	if len(msg.To) == 0 {
		return nil, fmt.Errorf("%w: no recipients", ErrInvalidMessage)
	}
	m := gomail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("%w: from address: %w", ErrInvalidMessage, err)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("%w: recipient address: %w", ErrInvalidMessage, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)
	return m, nil
}
