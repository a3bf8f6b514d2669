// Package email delivers verification codes over SMTP.
package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/anonexchange/anonexchange-api/internal/core/ports"
)

// Config captures the SMTP settings for the outbound mailer.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender sends verification emails through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg Config) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send delivers one verification email. Each call dials a fresh SMTP
// connection; volume is low enough that pooling is not worth it.
func (s *SMTPSender) Send(job ports.VerificationEmail) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", job.To)
	m.SetHeader("Subject", "AnonExchange Verification Code")
	m.SetBody("text/html", verificationBody(job.Username, job.Code))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

func verificationBody(username, code string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; padding: 20px;">
  <h1 style="color: #333;">Hello, %s!</h1>
  <p>Your verification code is:</p>
  <div style="font-size: 20px; font-weight: bold; background-color: #f0f0f0; padding: 10px; border-radius: 8px; display: inline-block;">%s</div>
  <p style="margin-top: 20px;">Please use this code to verify your account.</p>
</div>`, username, code)
}
