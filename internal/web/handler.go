package web

import (
	"bytes"
	"context"
	"net/http"
	"path/filepath"

	"github.com/cryptostarter/cryptostarter/internal/earned"
	"github.com/cryptostarter/cryptostarter/internal/locale"
	"github.com/cryptostarter/cryptostarter/internal/logging"
	"github.com/cryptostarter/cryptostarter/internal/user"
)

// Page names
const (
	PageIndex    = "index"
	PageNotFound = "error404"
)

// EarnedSource reports the raised amount shown on the landing page
type EarnedSource interface {
	Dollars(ctx context.Context) int64
}

type Handler struct {
	renderer *Renderer
	locales  *locale.Catalog
	earned   EarnedSource
}

func NewHandler(renderer *Renderer, locales *locale.Catalog, earned EarnedSource) *Handler {
	return &Handler{renderer: renderer, locales: locales, earned: earned}
}

// Page serves a page in the locale chosen by the request
func (h *Handler) Page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, persist := h.locales.Resolve(r)
		if persist {
			locale.SetCookie(w, l)
		}
		h.render(w, r, name, l, http.StatusOK)
	}
}

// Landing serves the index page in a fixed locale, for /de, /ru and friends
func (h *Handler) Landing(code string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, ok := h.locales.Get(code)
		if !ok {
			h.NotFound(w, r)
			return
		}
		locale.SetCookie(w, l)
		h.render(w, r, PageIndex, l, http.StatusOK)
	}
}

// NotFound renders the 404 page
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	l, _ := h.locales.Resolve(r)
	h.render(w, r, PageNotFound, l, http.StatusNotFound)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, l *locale.Locale, status int) {
	data := PageData{
		Locale:    l,
		Languages: h.locales.Codes(),
	}
	if u, ok := user.FromContext(r.Context()); ok {
		data.User = u
	}
	if name == PageIndex {
		data.Earned = earned.Readable(h.earned.Dollars(r.Context()))
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, name, data); err != nil {
		logging.GetLoggerFromContext(r.Context()).Error("failed to render page", "page", name, "error", err.Error())
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// StaticFile serves one file below dir
func StaticFile(dir, name string) http.HandlerFunc {
	file := filepath.Join(dir, filepath.FromSlash(name))
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, file)
	}
}
