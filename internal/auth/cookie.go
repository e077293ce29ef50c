package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"aidanwoods.dev/go-paseto"
)

// SessionCookieName is the cookie carrying the sealed session token
const SessionCookieName = "session"

var ErrInvalidCookie = errors.New("invalid session cookie")

// CookieCodec seals session tokens into PASETO v4.local values (XChaCha20-Poly1305).
// The cookie stays opaque to the browser, and forged or expired cookies are
// rejected without a store lookup.
type CookieCodec struct {
	key    paseto.V4SymmetricKey
	secure bool
}

func NewCookieCodec(symmetricKey []byte, secure bool) (*CookieCodec, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("symmetric key must be exactly 32 bytes, got %d", len(symmetricKey))
	}

	key, err := paseto.V4SymmetricKeyFromBytes(symmetricKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &CookieCodec{key: key, secure: secure}, nil
}

// Seal encrypts the session token together with its expiry
func (c *CookieCodec) Seal(sessionToken string, expiresAt time.Time) string {
	token := paseto.NewToken()
	token.SetIssuedAt(time.Now())
	token.SetExpiration(expiresAt)
	token.SetString("sid", sessionToken)

	return token.V4Encrypt(c.key, nil)
}

// Open returns the session token sealed in value
func (c *CookieCodec) Open(value string) (string, error) {
	// The default parser rejects expired tokens
	token, err := paseto.NewParser().ParseV4Local(c.key, value, nil)
	if err != nil {
		return "", ErrInvalidCookie
	}

	sid, err := token.GetString("sid")
	if err != nil || sid == "" {
		return "", ErrInvalidCookie
	}
	return sid, nil
}

// SetSessionCookie writes the sealed session cookie
func (c *CookieCodec) SetSessionCookie(w http.ResponseWriter, sessionToken string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    c.Seal(sessionToken, expiresAt),
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie in the browser
func (c *CookieCodec) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionToken extracts the session token from the request cookie, or "" if absent or invalid
func (c *CookieCodec) SessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}

	token, err := c.Open(cookie.Value)
	if err != nil {
		return ""
	}
	return token
}
