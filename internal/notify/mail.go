// Package notify delivers run results: completion mails to the site owner and
// published-article events to a message bus.
package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// MailConfig holds SMTP settings for the completion mail.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// Mailer sends HTML notification mails over SMTP.
type Mailer struct {
	cfg    MailConfig
	logger *zap.Logger
}

// NewMailer validates the configuration.
func NewMailer(cfg MailConfig, logger *zap.Logger) (*Mailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("mail host is required")
	}
	if cfg.From == "" || cfg.To == "" {
		return nil, fmt.Errorf("mail from and to addresses are required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailer{cfg: cfg, logger: logger}, nil
}

// Send delivers one HTML mail. Callers treat failures as non-fatal.
func (m *Mailer) Send(ctx context.Context, subject string, html string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(m.cfg.To); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, html+mailFooter)

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("create mail client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	m.logger.Info("notification mail sent", zap.String("subject", subject))
	return nil
}

const mailFooter = `<hr><p style="color:#6b7a90;font-size:12px;">Diese Mail wurde automatisch vom Segeln-Lernen Generator verschickt.</p>`
