// Package notify sends plain-text email notifications.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"gopkg.in/gomail.v2"
)

// DefaultSubject is the subject used for resume processing notifications.
const DefaultSubject = "Resume Processing Update"

// Mailer delivers a single message to a single recipient.
type Mailer interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// DeliveryError reports a message that could not be handed to the mail server.
type DeliveryError struct {
	Recipient string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver email to %s: %v", e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// SMTPConfig holds mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// sender is satisfied by *gomail.Dialer.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends mail synchronously through an SMTP server. Port 587 uses
// STARTTLS when the server offers it.
type SMTPMailer struct {
	from   string
	sender sender
}

// NewSMTPMailer returns a mailer for cfg.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("mail server host is required")
	}
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	if _, err := mail.ParseAddress(from); err != nil {
		return nil, fmt.Errorf("invalid sender address %q: %w", from, err)
	}
	return &SMTPMailer{
		from:   from,
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}, nil
}

// Send delivers body to recipient. Failures are returned as *DeliveryError.
func (m *SMTPMailer) Send(ctx context.Context, recipient, subject, body string) error {
	recipient = strings.TrimSpace(recipient)
	if _, err := mail.ParseAddress(recipient); err != nil {
		return &DeliveryError{Recipient: recipient, Err: fmt.Errorf("invalid address: %w", err)}
	}
	if err := ctx.Err(); err != nil {
		return &DeliveryError{Recipient: recipient, Err: err}
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.sender.DialAndSend(msg); err != nil {
		return &DeliveryError{Recipient: recipient, Err: err}
	}
	return nil
}

// ErrNotConfigured is wrapped by Disabled when no SMTP credentials are set.
var ErrNotConfigured = errors.New("mail server is not configured")

// Disabled is a Mailer that rejects every message.
type Disabled struct{}

// Send always fails with a *DeliveryError wrapping ErrNotConfigured.
func (Disabled) Send(_ context.Context, recipient, _, _ string) error {
	return &DeliveryError{Recipient: recipient, Err: ErrNotConfigured}
}
