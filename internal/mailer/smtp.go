package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/frahmantamala/hours-portal/internal"
)

// Sender delivers messages over implicit-TLS SMTP.
type Sender struct {
	client      *mail.Client
	from        string
	dialTimeout time.Duration
	logger      *slog.Logger
}

func NewSender(cfg internal.MailConfig, logger *slog.Logger) (*Sender, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Port),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("create mail client: %w", err)
	}

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &Sender{
		client:      client,
		from:        from,
		dialTimeout: cfg.DialTimeout,
		logger:      logger,
	}, nil
}

func (s *Sender) Send(ctx context.Context, m Message) error {
	msg, err := s.build(m)
	if err != nil {
		return err
	}

	ctx, cancel := internal.WithTimeout(ctx, s.dialTimeout)
	defer cancel()

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", m.To, err)
	}
	s.logger.Info("email delivered", "to", m.To, "subject", m.Subject)
	return nil
}

func (s *Sender) build(m Message) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return nil, fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, m.Body)
	return msg, nil
}
