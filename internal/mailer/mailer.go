package mailer

import (
	"context"
	"fmt"

	mail "github.com/wneessen/go-mail"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/relay/internal/config"
)

// Message is a fully rendered email ready for transport.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Transport delivers rendered messages. Implementations must treat every Send
// as an independent operation.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// Module wires the mail transport.
var Module = fx.Provide(NewTransport)

// NewTransport builds a mail transport based on configuration.
func NewTransport(cfg config.Config, logger *zap.Logger) (Transport, error) {
	switch cfg.Mail.Driver {
	case "noop":
		logger.Info("mail disabled; using noop transport")

		return noopTransport{logger: logger}, nil
	case "smtp":
		return newSMTPTransport(cfg.Mail)
	default:
		return nil, fmt.Errorf("unsupported mail driver: %s", cfg.Mail.Driver)
	}
}

// noopTransport logs instead of sending; useful for local runs.
type noopTransport struct {
	logger *zap.Logger
}

func (t noopTransport) Send(_ context.Context, msg Message) error {
	t.logger.Info("noop mail send",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}

// smtpTransport sends via SMTP using go-mail.
type smtpTransport struct {
	client *mail.Client
	sender string
}

func newSMTPTransport(cfg config.Mail) (Transport, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &smtpTransport{client: client, sender: cfg.SenderAddress}, nil
}

func (t *smtpTransport) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.From(t.sender); err != nil {
		return err
	}
	if err := m.To(msg.To); err != nil {
		return err
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)

	return t.client.DialAndSendWithContext(ctx, m)
}
