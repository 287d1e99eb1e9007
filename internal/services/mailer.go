package services

import (
	"fmt"
	"log"

	gomail "gopkg.in/gomail.v2"

	"hragent/hiring-pipeline/internal/config"
)

// EmailSender delivers one HTML email. Implementations must be safe for
// concurrent use.
type EmailSender interface {
	Send(to, subject, htmlBody string) error
}

type smtpMailer struct {
	dialer  *gomail.Dialer
	sender  string
	enabled bool
}

// NewSMTPMailer builds the SMTP sender. With incomplete settings the mailer
// stays disabled and suppresses sends instead of failing, matching the
// best-effort contract of every notification path.
func NewSMTPMailer(cfg config.SMTPConfig) EmailSender {
	if cfg.Host == "" || cfg.SenderEmail == "" || cfg.Password == "" {
		log.Println("⚠️  SMTP settings are not fully configured. Email notifications will be disabled.")
		return &smtpMailer{enabled: false}
	}

	return &smtpMailer{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		sender:  cfg.SenderEmail,
		enabled: true,
	}
}

func (m *smtpMailer) Send(to, subject, htmlBody string) error {
	if !m.enabled {
		log.Printf("📭 Email notifications disabled. Suppressing email to %s.\n", to)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	log.Printf("📧 Sent email to %s with subject %q\n", to, subject)
	return nil
}
