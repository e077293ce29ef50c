package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Constraint names declared by the migrations.
const (
	UsersEmailKey            = "users_email_key"
	UsersSessionTokenHashKey = "users_session_token_hash_key"
)

// User is the row stored in the users table
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID               uuid.UUID  `bun:"id,pk,type:uuid"`
	Email            string     `bun:"email,notnull"`
	PasswordHash     string     `bun:"password_hash,notnull"`
	SessionTokenHash *string    `bun:"session_token_hash"`
	SessionExpiresAt *time.Time `bun:"session_expires_at"`
	Name             string     `bun:"name,notnull"`
	Bio              string     `bun:"bio,notnull"`
	Photo            string     `bun:"photo,notnull"`
	Projects         []string   `bun:"projects,array"`
	Investments      []string   `bun:"investments,array"`
	CreatedAt        time.Time  `bun:"created_at,notnull"`
	UpdatedAt        time.Time  `bun:"updated_at,notnull"`
}
