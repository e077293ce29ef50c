package auth

import (
	"errors"
	"net/http"

	"github.com/cryptostarter/cryptostarter/internal/httputil"
	"github.com/cryptostarter/cryptostarter/internal/logging"
	"github.com/cryptostarter/cryptostarter/internal/metrics"
	"github.com/cryptostarter/cryptostarter/internal/user"
)

// Failure messages returned in the envelope
const (
	MessageDuplicateEmail = "Email already registered"
	MessageBadCredentials = "Bad auth data"
	messageInvalidData    = "Invalid data: "
)

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service *Service
	cookies *CookieCodec
}

func NewHandler(service *Service, cookies *CookieCodec) *Handler {
	return &Handler{service: service, cookies: cookies}
}

// CredentialsRequest is the body of register and login requests
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"pass"`
}

// Register handles user registration
// @Summary      Register a new user
// @Description  Create an account and start a session. Failures are reported in the envelope.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body CredentialsRequest true "Registration credentials"
// @Success      200 {object} httputil.Envelope
// @Router       /api/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req CredentialsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid registration request body", "error", err.Error())
		httputil.RespondFailure(w, httputil.MessageInvalidBody)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	session, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			logger.Warn("registration failed: email already exists")
			metrics.RecordAuth("register", metrics.OutcomeDuplicate)
			httputil.RespondFailure(w, MessageDuplicateEmail)
			return
		}
		var verr *user.ValidationError
		if errors.As(err, &verr) {
			logger.Warn("registration failed: validation error", "error", verr.Error())
			metrics.RecordAuth("register", metrics.OutcomeRejected)
			httputil.RespondFailure(w, messageInvalidData+verr.Error())
			return
		}
		logger.Error("registration failed: internal error", "error", err.Error())
		metrics.RecordAuth("register", metrics.OutcomeError)
		httputil.RespondFailure(w, httputil.MessageUnknown)
		return
	}

	logger.Info("user registered successfully", "user_id", session.User.ID)
	metrics.RecordAuth("register", metrics.OutcomeSuccess)

	h.cookies.SetSessionCookie(w, session.Token, session.ExpiresAt)
	httputil.RespondSuccess(w, nil)
}

// Login handles user login
// @Summary      User login
// @Description  Check credentials and rotate the session cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body CredentialsRequest true "Login credentials"
// @Success      200 {object} httputil.Envelope
// @Router       /api/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req CredentialsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.RespondFailure(w, httputil.MessageInvalidBody)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			logger.Warn("login failed: invalid credentials")
			metrics.RecordAuth("login", metrics.OutcomeRejected)
			httputil.RespondFailure(w, MessageBadCredentials)
			return
		}
		logger.Error("login failed: internal error", "error", err.Error())
		metrics.RecordAuth("login", metrics.OutcomeError)
		httputil.RespondFailure(w, httputil.MessageUnknown)
		return
	}

	logger.Info("user logged in successfully", "user_id", session.User.ID)
	metrics.RecordAuth("login", metrics.OutcomeSuccess)

	h.cookies.SetSessionCookie(w, session.Token, session.ExpiresAt)
	httputil.RespondSuccess(w, nil)
}

// Logout handles user logout
// @Summary      User logout
// @Description  End the current session and clear the cookie
// @Tags         auth
// @Produce      json
// @Success      200 {object} httputil.Envelope
// @Router       /api/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if token := h.cookies.SessionToken(r); token != "" {
		if err := h.service.Logout(r.Context(), token); err != nil {
			// Continue - still clear the cookie
			logger.Error("failed to end session", "error", err.Error())
			metrics.RecordAuth("logout", metrics.OutcomeError)
		} else {
			metrics.RecordAuth("logout", metrics.OutcomeSuccess)
		}
	}

	h.cookies.ClearSessionCookie(w)

	logger.Info("user logged out")
	httputil.RespondSuccess(w, nil)
}
