// Package preregister captures project pre-registrations from the landing page.
package preregister

import (
	"context"
	"errors"
	"fmt"

	"github.com/cryptostarter/cryptostarter/internal/logging"
)

var (
	ErrBadCaptcha   = errors.New("bad captcha")
	ErrInvalidEmail = errors.New("invalid email address")
)

const (
	userSubject = "Success CryptoStarter pre-registration!"
	userText    = "Your project successful registered in CryptoStarter project list!"
	teamSubject = "CryptoStarter pre-register"
)

// Mailer sends plain text mail
type Mailer interface {
	Send(ctx context.Context, to, subject, text string) error
}

// Request is a pre-registration form submission.
// Message is a honeypot field hidden from humans.
type Request struct {
	Email       string `json:"email"`
	Project     string `json:"project"`
	Description string `json:"description"`
	Message     string `json:"message"`
	Captcha     string `json:"captcha"`
}

// Outcome of a submission that did not fail
type Outcome int

const (
	Accepted Outcome = iota
	Ignored
)

type Service struct {
	mailer    Mailer
	captcha   CaptchaVerifier
	teamEmail string
	logger    *logging.Logger
}

// NewService builds the service. A nil captcha disables verification.
func NewService(mailer Mailer, captcha CaptchaVerifier, teamEmail string, logger *logging.Logger) *Service {
	if captcha == nil {
		captcha = noCaptcha{}
	}
	return &Service{mailer: mailer, captcha: captcha, teamEmail: teamEmail, logger: logger}
}

// Submit confirms the registration to the submitter and forwards it to the team.
// Honeypot submissions are accepted silently without sending anything.
func (s *Service) Submit(ctx context.Context, req Request, remoteIP string) (Outcome, error) {
	if req.Message != "" {
		return Ignored, nil
	}

	if err := s.captcha.Verify(ctx, req.Captcha, remoteIP); err != nil {
		return Accepted, fmt.Errorf("%w: %w", ErrBadCaptcha, err)
	}

	if err := s.mailer.Send(ctx, req.Email, userSubject, userText); err != nil {
		return Accepted, fmt.Errorf("%w: %w", ErrInvalidEmail, err)
	}

	if s.teamEmail == "" {
		s.logger.Warn("TEAM_EMAIL not set, skipping team notification", "email", req.Email)
		return Accepted, nil
	}

	if err := s.mailer.Send(ctx, s.teamEmail, teamSubject, teamText(req)); err != nil {
		// The submitter already has a confirmation
		s.logger.Error("failed to notify team about pre-registration", "email", req.Email, "error", err.Error())
	}

	return Accepted, nil
}

func teamText(req Request) string {
	return fmt.Sprintf("Project data:\n\n%s\n\n%s\n\n%s", req.Project, req.Email, req.Description)
}
