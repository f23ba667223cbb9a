package alert

import (
	"context"
	"fmt"

	mail "github.com/wneessen/go-mail"
)

// Mailer sends one rendered alert email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// DeliveryError marks a single recipient's failed send. It is fatal for
// that recipient only; the batch keeps going.
type DeliveryError struct {
	Recipient string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %s failed: %v", e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// SMTPMailer delivers through an SMTP relay using go-mail.
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

var _ Mailer = (*SMTPMailer)(nil)

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.From); err != nil {
		return &DeliveryError{Recipient: to, Err: fmt.Errorf("invalid from address: %w", err)}
	}
	if err := msg.To(to); err != nil {
		return &DeliveryError{Recipient: to, Err: fmt.Errorf("invalid recipient: %w", err)}
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{mail.WithPort(m.Port)}
	if m.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.Username),
			mail.WithPassword(m.Password),
		)
	}
	client, err := mail.NewClient(m.Host, opts...)
	if err != nil {
		return &DeliveryError{Recipient: to, Err: err}
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return &DeliveryError{Recipient: to, Err: err}
	}
	return nil
}
