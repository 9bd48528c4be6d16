package notify

import (
	"fmt"

	"estate-backend/internal/config"
	"estate-backend/internal/verification"

	"gopkg.in/gomail.v2"
)

// EmailSender delivers OTP codes over SMTP.
type EmailSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailSender(cfg *config.Config) *EmailSender {
	return &EmailSender{
		dialer: gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password),
		from:   cfg.SMTP.From,
	}
}

func (s *EmailSender) SendCode(_ verification.Channel, destination, code string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", destination)
	m.SetHeader("Subject", "Your verification code")
	m.SetBody("text/html", fmt.Sprintf(
		"<p>Your verification code is <b>%s</b>.</p><p>It is valid for 10 minutes. Do not share this code with anyone.</p>",
		code,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}
