package project

import (
	"net/http"

	"github.com/cryptostarter/cryptostarter/internal/httputil"
	"github.com/cryptostarter/cryptostarter/internal/locale"
	"github.com/cryptostarter/cryptostarter/internal/logging"
)

type Handler struct {
	locales *locale.Catalog
}

func NewHandler(locales *locale.Catalog) *Handler {
	return &Handler{locales: locales}
}

// List returns project summaries
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Param        status query string false "active, prepared or done"
// @Param        lang   query string false "locale code"
// @Success      200 {object} httputil.Envelope
// @Router       /api/projects [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	status, err := ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		logger.Warn("unknown project status", "status", r.URL.Query().Get("status"))
		httputil.RespondFailure(w, "Invalid data: status must be active, prepared or done")
		return
	}

	l, _ := h.locales.Resolve(r)

	projects, err := List(status, l)
	if err != nil {
		logger.Error("failed to list projects", "error", err.Error())
		httputil.RespondFailure(w, httputil.MessageUnknown)
		return
	}

	httputil.RespondSuccess(w, projects)
}
