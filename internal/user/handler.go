package user

import (
	"errors"
	"net/http"

	"github.com/cryptostarter/cryptostarter/internal/httputil"
	"github.com/cryptostarter/cryptostarter/internal/logging"
)

// Handler serves the signed-in user's profile. Routes must sit behind the
// session middleware, which puts the user in the request context.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Get returns the current user's profile
// @Summary      Current user
// @Tags         user
// @Produce      json
// @Success      200 {object} httputil.Envelope
// @Router       /api/user [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	u, ok := FromContext(r.Context())
	if !ok {
		httputil.RespondFailure(w, httputil.MessageNotLoggedIn)
		return
	}
	httputil.RespondSuccess(w, u)
}

// Update changes the current user's profile
// @Summary      Update profile
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body Profile true "Profile fields"
// @Success      200 {object} httputil.Envelope
// @Router       /api/user [post]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	u, ok := FromContext(r.Context())
	if !ok {
		httputil.RespondFailure(w, httputil.MessageNotLoggedIn)
		return
	}

	var req Profile
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid profile request body", "error", err.Error())
		httputil.RespondFailure(w, httputil.MessageInvalidBody)
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), u, req)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			logger.Warn("profile update rejected", "error", verr.Error())
			httputil.RespondFailure(w, "Invalid data: "+verr.Error())
			return
		}
		logger.Error("profile update failed", "user_id", u.ID, "error", err.Error())
		httputil.RespondFailure(w, httputil.MessageUnknown)
		return
	}

	logger.Info("profile updated", "user_id", u.ID)
	httputil.RespondSuccess(w, updated)
}
