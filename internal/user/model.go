package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Profile defaults applied to every new account.
const (
	DefaultName  = "CryptoStarter User"
	DefaultBio   = "-"
	DefaultPhoto = "none"
)

type User struct {
	ID               uuid.UUID  `json:"id"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"` // Never expose password hash in JSON
	SessionTokenHash *string    `json:"-"`
	SessionExpiresAt *time.Time `json:"-"`
	Name             string     `json:"name"`
	Bio              string     `json:"bio"`
	Photo            string     `json:"photo"`
	Projects         []string   `json:"projects"`
	Investments      []string   `json:"investments"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// New builds an unsaved user with default profile fields
func New(email, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         DefaultName,
		Bio:          DefaultBio,
		Photo:        DefaultPhoto,
		Projects:     []string{},
		Investments:  []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// SetSession attaches a session token hash valid until expiresAt
func (u *User) SetSession(tokenHash string, expiresAt time.Time) {
	u.SessionTokenHash = &tokenHash
	u.SessionExpiresAt = &expiresAt
}

// ClearSession drops the active session, if any
func (u *User) ClearSession() {
	u.SessionTokenHash = nil
	u.SessionExpiresAt = nil
}

// HasSessionAt reports whether the user holds a session that is still valid at t
func (u *User) HasSessionAt(t time.Time) bool {
	if u.SessionTokenHash == nil || *u.SessionTokenHash == "" {
		return false
	}
	return u.SessionExpiresAt == nil || t.Before(*u.SessionExpiresAt)
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying the authenticated user
func NewContext(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// FromContext returns the authenticated user stored by the session middleware
func FromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(contextKey{}).(*User)
	return u, ok && u != nil
}
