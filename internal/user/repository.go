package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/uptrace/bun"

	"github.com/cryptostarter/cryptostarter/internal/database"
)

const uniqueViolation = "23505"

var (
	ErrNotFound           = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrSessionCollision   = errors.New("session token already in use")
	ErrStorageUnavailable = errors.New("user storage unavailable")
)

// Repository is the credential store backed by the users table
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Insert stores a new user. Email uniqueness is enforced by the database, so
// concurrent registrations for one address cannot both succeed.
func (r *Repository) Insert(ctx context.Context, u *User) error {
	_, err := r.db.NewInsert().
		Model(mapModelToDBUser(u)).
		Returning("NULL").
		Exec(ctx)
	if err != nil {
		return mapWriteError("insert user", err)
	}
	return nil
}

// Columns written by the scoped updates. updated_at is always written as well.
var (
	SessionColumns = []string{"session_token_hash", "session_expires_at"}
	ProfileColumns = []string{"name", "bio", "photo"}
)

// Update writes u to the stored record. With columns, only those columns (plus
// updated_at) are written, so concurrent writers of other columns are not reverted.
// Without columns every column except id and created_at is overwritten.
func (r *Repository) Update(ctx context.Context, u *User, columns ...string) error {
	u.UpdatedAt = time.Now().UTC()

	q := r.db.NewUpdate().
		Model(mapModelToDBUser(u)).
		WherePK()
	if len(columns) > 0 {
		q = q.Column(append(append([]string(nil), columns...), "updated_at")...)
	} else {
		q = q.ExcludeColumn("id", "created_at")
	}

	result, err := q.Exec(ctx)
	if err != nil {
		return mapWriteError("update user", err)
	}

	return checkAffected(result)
}

// ClearSession removes any session held by the user
func (r *Repository) ClearSession(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Set("session_token_hash = NULL").
		Set("session_expires_at = NULL").
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return storageError("clear session", err)
	}

	return checkAffected(result)
}

// FindByEmail retrieves a user by exact email match
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, "find user by email", "u.email = ?", email)
}

// FindBySessionToken retrieves the user holding the given session token hash
func (r *Repository) FindBySessionToken(ctx context.Context, tokenHash string) (*User, error) {
	return r.findOne(ctx, "find user by session", "u.session_token_hash = ?", tokenHash)
}

// FindByID retrieves a user by ID
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.findOne(ctx, "find user by id", "u.id = ?", id)
}

// Exists reports whether a user with the email is stored
func (r *Repository) Exists(ctx context.Context, email string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*database.User)(nil)).
		Where("u.email = ?", email).
		Exists(ctx)
	if err != nil {
		return false, storageError("check email", err)
	}
	return exists, nil
}

func (r *Repository) findOne(ctx context.Context, op, query string, arg any) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where(query, arg).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storageError(op, err)
	}

	return mapDBUserToModel(dbUser), nil
}

func checkAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storageError("get rows affected", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func mapWriteError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		if pqErr.Constraint == database.UsersSessionTokenHashKey {
			return ErrSessionCollision
		}
		return ErrDuplicateEmail
	}
	return storageError(op, err)
}

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

func mapModelToDBUser(u *User) *database.User {
	return &database.User{
		ID:               u.ID,
		Email:            u.Email,
		PasswordHash:     u.PasswordHash,
		SessionTokenHash: u.SessionTokenHash,
		SessionExpiresAt: u.SessionExpiresAt,
		Name:             u.Name,
		Bio:              u.Bio,
		Photo:            u.Photo,
		Projects:         nonNil(u.Projects),
		Investments:      nonNil(u.Investments),
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

// mapDBUserToModel converts database model to domain model
func mapDBUserToModel(dbu *database.User) *User {
	return &User{
		ID:               dbu.ID,
		Email:            dbu.Email,
		PasswordHash:     dbu.PasswordHash,
		SessionTokenHash: dbu.SessionTokenHash,
		SessionExpiresAt: dbu.SessionExpiresAt,
		Name:             dbu.Name,
		Bio:              dbu.Bio,
		Photo:            dbu.Photo,
		Projects:         nonNil(dbu.Projects),
		Investments:      nonNil(dbu.Investments),
		CreatedAt:        dbu.CreatedAt,
		UpdatedAt:        dbu.UpdatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
