package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptostarter/cryptostarter/internal/locale"
	"github.com/cryptostarter/cryptostarter/internal/user"
	"github.com/cryptostarter/cryptostarter/templates"
)

type fixedEarned int64

func (f fixedEarned) Dollars(context.Context) int64 { return int64(f) }

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	renderer, err := NewRenderer(templates.PagesFS)
	require.NoError(t, err)
	locales, err := locale.Load("")
	require.NoError(t, err)
	return NewHandler(renderer, locales, fixedEarned(123456))
}

func TestRenderer_AllPagesParse(t *testing.T) {
	renderer, err := NewRenderer(templates.PagesFS)
	require.NoError(t, err)

	for _, name := range []string{"index", "about", "login", "project", "register", "registerProject", "restorePass", "term", "profile", "projectConstructor", "error404"} {
		_, ok := renderer.pages[name]
		assert.True(t, ok, name)
	}
}

func TestHandler_Page(t *testing.T) {
	h := newTestHandler(t)

	t.Run("index shows raised amount", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Page(PageIndex)(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "$123 456")
		assert.Contains(t, rec.Body.String(), "Crowdfunding on the blockchain")
	})

	t.Run("lang query is persisted", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Page("about")(rec, httptest.NewRequest(http.MethodGet, "/about?lang=ru", nil))

		assert.Contains(t, rec.Body.String(), `lang="ru"`)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "ru", cookies[0].Value)
	})

	t.Run("signed-in user sees profile link", func(t *testing.T) {
		u := user.New("a@b.com", "hash")
		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req = req.WithContext(user.NewContext(req.Context(), u))
		rec := httptest.NewRecorder()

		h.Page("profile")(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "a@b.com")
		assert.Contains(t, rec.Body.String(), `href="/profile"`)
	})
}

func TestHandler_Landing(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Landing("ar")(rec, httptest.NewRequest(http.MethodGet, "/ar", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `dir="rtl"`)

	rec = httptest.NewRecorder()
	h.Landing("xx")(rec, httptest.NewRequest(http.MethodGet, "/xx", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_NotFound(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}

func TestStaticFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", "whitepaper.pdf"), []byte("%PDF-1.4"), 0o644))

	rec := httptest.NewRecorder()
	StaticFile(dir, "docs/whitepaper.pdf")(rec, httptest.NewRequest(http.MethodGet, "/wp", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "%PDF-1.4", rec.Body.String())
}
