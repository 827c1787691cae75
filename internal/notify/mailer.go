// internal/notify/mailer.go
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"go_nocontact_keep/internal/config"
	"go_nocontact_keep/internal/middleware"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// --- LogMailer ---
type LogMailer struct{}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	logger := middleware.GetLogger(ctx)
	logger.Info("--- Sending Email (LogMailer) ---", "to", to, "subject", subject, "body", body)
	return nil
}

// --- SMTPMailer ---
type SMTPMailer struct {
	cfg  config.SMTPConfig
	from string
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	logger := middleware.GetLogger(ctx)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	logger.Debug("Attempting to send email via SMTP", "smtp_addr", addr, "from", m.from, "to", to)

	// 認証なしの平文接続 (ローカルのリレー向け)
	c, err := smtp.Dial(addr)
	if err != nil {
		logger.Error("Failed to connect to SMTP server", "error", err, "addr", addr)
		return fmt.Errorf("SMTPMailer.Send: %w", err)
	}
	defer c.Close()

	if err = c.Mail(m.from); err != nil {
		return fmt.Errorf("SMTPMailer.Send: MAIL FROM: %w", err)
	}
	if err = c.Rcpt(to); err != nil {
		return fmt.Errorf("SMTPMailer.Send: RCPT TO: %w", err)
	}
	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("SMTPMailer.Send: DATA: %w", err)
	}

	msg := "From: " + m.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n"
	if _, err = wc.Write([]byte(msg)); err != nil {
		wc.Close()
		return fmt.Errorf("SMTPMailer.Send: write: %w", err)
	}
	if err = wc.Close(); err != nil {
		return fmt.Errorf("SMTPMailer.Send: close data: %w", err)
	}
	if err = c.Quit(); err != nil {
		logger.Warn("SMTP QUIT failed", "error", err)
	}

	logger.Info("Email sent successfully via SMTP", "to", to, "subject", subject)
	return nil
}

// NewMailer は設定に応じた Mailer を返します
func NewMailer(ctx context.Context, cfg config.NotifyConfig) (Mailer, error) {
	logger := middleware.GetLogger(ctx)
	switch cfg.Mailer {
	case config.MailerSMTP:
		logger.Info("Initializing SMTP mailer...")
		return &SMTPMailer{cfg: cfg.SMTP, from: cfg.From}, nil
	case config.MailerSES:
		logger.Info("Initializing SES mailer...")
		m, err := NewSESMailer(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.MailerLog, "":
		logger.Info("Initializing Log mailer...")
		return &LogMailer{}, nil
	default:
		logger.Warn("Unknown mailer type, defaulting to LogMailer", slog.String("type", cfg.Mailer))
		return &LogMailer{}, nil
	}
}
