package email

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/cryptostarter/cryptostarter/internal/logging"
)

var ErrInvalidRecipient = errors.New("invalid recipient address")

// SendFunc matches smtp.SendMail
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Service struct {
	smtpHost     string
	smtpPort     string
	smtpUser     string
	smtpPassword string
	fromEmail    string
	send         SendFunc
}

func NewService(smtpHost, smtpPort, smtpUser, smtpPassword, fromEmail string) *Service {
	return &Service{
		smtpHost:     smtpHost,
		smtpPort:     smtpPort,
		smtpUser:     smtpUser,
		smtpPassword: smtpPassword,
		fromEmail:    fromEmail,
		send:         smtp.SendMail,
	}
}

// WithSendFunc replaces the SMTP transport
func (s *Service) WithSendFunc(send SendFunc) *Service {
	s.send = send
	return s
}

// Send delivers a plain text message. Recipients containing line breaks or no @ are rejected with ErrInvalidRecipient.
func (s *Service) Send(ctx context.Context, to, subject, text string) error {
	logger := logging.GetLoggerFromContext(ctx)

	if !validRecipient(to) {
		logger.Warn("refusing to send email to invalid address", "email", to)
		return ErrInvalidRecipient
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.sendEmail(to, subject, text); err != nil {
		logger.Error("failed to send email", "email", to, "subject", subject, "error", err)
		return fmt.Errorf("send email: %w", err)
	}

	logger.Info("email sent", "email", to, "subject", subject)
	return nil
}

func validRecipient(to string) bool {
	if strings.ContainsAny(to, "\r\n") {
		return false
	}
	at := strings.LastIndex(to, "@")
	return at > 0 && at < len(to)-1
}

func (s *Service) sendEmail(to, subject, body string) error {
	var auth smtp.Auth
	if s.smtpUser != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPassword, s.smtpHost)
	}

	// Build message
	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/plain; charset=UTF-8\r\n"+
			"\r\n"+
			"%s\r\n",
		s.fromEmail, to, sanitizeHeader(subject), body,
	))

	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)
	return s.send(addr, auth, s.fromEmail, []string{to}, msg)
}

func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
