package worker

import (
	"context"
	"log"

	"Inkwell/internal/conf"

	"gopkg.in/gomail.v2"
)

// Sender delivers one plain-text mail.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender delivers through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg conf.MailConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.Sender,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}

// LogSender writes mails to the log instead of sending them. Used when no
// SMTP host is configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, to, subject, body string) error {
	log.Printf("📧 mail to %s: %s\n%s", to, subject, body)
	return nil
}

// NewSender picks SMTP when a host is configured.
func NewSender(cfg conf.MailConfig) Sender {
	if cfg.SMTPHost == "" {
		log.Println("⚠️ MAIL_SMTP_HOST not set, mails will be logged")
		return LogSender{}
	}
	return NewSMTPSender(cfg)
}
