package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Service sends the office's transactional mail.
type Service interface {
	SendAppointmentConfirmation(ctx context.Context, to, prenom, when string) error
	SendCustom(ctx context.Context, to, subject, body string) error
}

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewService(cfg Config) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendAppointmentConfirmation(_ context.Context, to, prenom, when string) error {
	body := fmt.Sprintf(
		"Bonjour %s,\n\nVotre rendez-vous est confirmé pour le %s.\n\nÀ bientôt,\nLe cabinet",
		prenom, when,
	)
	return s.send(to, "Confirmation de rendez-vous", body)
}

func (s *smtpService) SendCustom(_ context.Context, to, subject, body string) error {
	return s.send(to, subject, body)
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
