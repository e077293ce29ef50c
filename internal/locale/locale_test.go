package locale

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Embedded(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"ar", "ch", "de", "en", "fr", "ru"}, c.Codes())
	assert.Equal(t, "en", c.Default().Code)

	ru, ok := c.Get("ru")
	require.True(t, ok)
	assert.Equal(t, "Вход", ru.T("nav.login"))
	assert.Equal(t, "Sign in", c.Default().T("nav.login"))
}

func TestLocale_T_Fallback(t *testing.T) {
	c, err := LoadFS(fstest.MapFS{
		"en.json": {Data: []byte(`{"a":{"b":"english"},"only":"in english"}`)},
		"de.json": {Data: []byte(`{"a":{"b":"deutsch"}}`)},
	})
	require.NoError(t, err)

	de, ok := c.Get("de")
	require.True(t, ok)
	assert.Equal(t, "deutsch", de.T("a.b"))
	assert.Equal(t, "in english", de.T("only"))
	assert.Equal(t, "missing.key", de.T("missing.key"))
}

func TestLoadFS_Errors(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{name: "empty", fsys: fstest.MapFS{}},
		{name: "invalid json", fsys: fstest.MapFS{"en.json": {Data: []byte(`{"a":`)}}},
		{name: "no default", fsys: fstest.MapFS{"de.json": {Data: []byte(`{}`)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFS(tt.fsys)
			assert.Error(t, err)
		})
	}
}

func TestCatalog_Resolve(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	tests := []struct {
		name    string
		target  string
		cookie  string
		accept  string
		want    string
		persist bool
	}{
		{name: "default", target: "/", want: "en"},
		{name: "query wins", target: "/?lang=fr", cookie: "de", accept: "ru", want: "fr", persist: true},
		{name: "unknown query falls through to cookie", target: "/?lang=xx", cookie: "de", want: "de"},
		{name: "cookie", target: "/", cookie: "ar", accept: "ru", want: "ar"},
		{name: "accept language", target: "/", accept: "ru-RU,ru;q=0.9,en;q=0.8", want: "ru"},
		{name: "accept language chinese", target: "/", accept: "zh-CN", want: "ch"},
		{name: "unsupported accept language", target: "/", accept: "ja", want: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LangCookieName, Value: tt.cookie})
			}
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}

			l, persist := c.Resolve(req)
			assert.Equal(t, tt.want, l.Code)
			assert.Equal(t, tt.persist, persist)
		})
	}
}

func TestSetCookie(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	de, _ := c.Get("de")

	rec := httptest.NewRecorder()
	SetCookie(rec, de)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, LangCookieName, cookies[0].Name)
	assert.Equal(t, "de", cookies[0].Value)
}
