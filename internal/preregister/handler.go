package preregister

import (
	"errors"
	"net"
	"net/http"

	"github.com/cryptostarter/cryptostarter/internal/httputil"
	"github.com/cryptostarter/cryptostarter/internal/logging"
	"github.com/cryptostarter/cryptostarter/internal/metrics"
)

const (
	MessageBadCaptcha   = "Bad Google captcha."
	MessageInvalidEmail = "Invalid Email address."
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// PreRegister handles pre-registration submissions
// @Summary      Pre-register a project
// @Tags         preregister
// @Accept       json
// @Produce      json
// @Param        request body Request true "Project and contact data"
// @Success      200 {object} httputil.Envelope
// @Router       /api/pre-register [post]
func (h *Handler) PreRegister(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req Request
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid pre-register request body", "error", err.Error())
		httputil.RespondFailure(w, httputil.MessageInvalidBody)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	outcome, err := h.service.Submit(r.Context(), req, clientIP(r))
	if err != nil {
		switch {
		case errors.Is(err, ErrBadCaptcha):
			logger.Warn("pre-registration rejected: captcha", "error", err.Error())
			metrics.RecordPreRegistration(metrics.OutcomeRejected)
			httputil.RespondFailure(w, MessageBadCaptcha)
		case errors.Is(err, ErrInvalidEmail):
			logger.Warn("pre-registration rejected: email", "error", err.Error())
			metrics.RecordPreRegistration(metrics.OutcomeRejected)
			httputil.RespondFailure(w, MessageInvalidEmail)
		default:
			logger.Error("pre-registration failed", "error", err.Error())
			metrics.RecordPreRegistration(metrics.OutcomeError)
			httputil.RespondFailure(w, httputil.MessageUnknown)
		}
		return
	}

	if outcome == Ignored {
		logger.Warn("pre-registration honeypot filled, ignoring")
		metrics.RecordPreRegistration(metrics.OutcomeIgnored)
	} else {
		logger.Info("project pre-registered")
		metrics.RecordPreRegistration(metrics.OutcomeSuccess)
	}

	httputil.RespondSuccess(w, nil)
}

// clientIP strips the port from RemoteAddr, which chi's RealIP middleware has already resolved
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
