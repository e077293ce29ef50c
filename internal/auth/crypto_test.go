package auth

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSessionToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateSessionToken()
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err)
		assert.Len(t, raw, SessionTokenBytes)

		assert.False(t, seen[token], "duplicate token")
		seen[token] = true
	}
}

func TestHashToken(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}

func TestArgon2idHasher(t *testing.T) {
	h := NewArgon2idHasher(testArgon2Params)

	hash, err := h.Hash("password1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=64,t=1,p=1$"))

	t.Run("round trip", func(t *testing.T) {
		ok, err := h.Verify("password1", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("altered plaintext", func(t *testing.T) {
		ok, err := h.Verify("password2", hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("salted", func(t *testing.T) {
		again, err := h.Hash("password1")
		require.NoError(t, err)
		assert.NotEqual(t, hash, again)
	})

	t.Run("malformed hash", func(t *testing.T) {
		for _, bad := range []string{"", "plain", "$argon2i$v=19$m=64,t=1,p=1$c2FsdA$aGFzaA", "$argon2id$v=19$m=64,t=1,p=0$c2FsdA$aGFzaA"} {
			_, err := h.Verify("password1", bad)
			assert.ErrorIs(t, err, ErrInvalidHash, bad)
		}
	})
}

func TestCookieCodec(t *testing.T) {
	t.Run("rejects short key", func(t *testing.T) {
		_, err := NewCookieCodec([]byte("short"), false)
		assert.Error(t, err)
	})

	codec, err := NewCookieCodec(testCookieKey, true)
	require.NoError(t, err)

	t.Run("seal and open", func(t *testing.T) {
		sealed := codec.Seal("token-value", time.Now().Add(time.Hour))
		assert.NotContains(t, sealed, "token-value")

		token, err := codec.Open(sealed)
		require.NoError(t, err)
		assert.Equal(t, "token-value", token)
	})

	t.Run("expired", func(t *testing.T) {
		sealed := codec.Seal("token-value", time.Now().Add(-time.Minute))
		_, err := codec.Open(sealed)
		assert.ErrorIs(t, err, ErrInvalidCookie)
	})

	t.Run("other key", func(t *testing.T) {
		other, err := NewCookieCodec([]byte("fedcba9876543210fedcba9876543210"), true)
		require.NoError(t, err)

		_, err = codec.Open(other.Seal("token-value", time.Now().Add(time.Hour)))
		assert.ErrorIs(t, err, ErrInvalidCookie)
	})

	t.Run("set cookie attributes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		codec.SetSessionCookie(rec, "token-value", time.Now().Add(time.Hour))

		cookie := sessionCookie(t, rec)
		require.NotNil(t, cookie)
		assert.Equal(t, "/", cookie.Path)
		assert.True(t, cookie.HttpOnly)
		assert.True(t, cookie.Secure)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		assert.Equal(t, "token-value", codec.SessionToken(req))
	})

	t.Run("missing cookie", func(t *testing.T) {
		assert.Empty(t, codec.SessionToken(httptest.NewRequest(http.MethodGet, "/", nil)))
	})
}
