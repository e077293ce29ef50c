package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cryptostarter/cryptostarter/internal/logging"
	"github.com/cryptostarter/cryptostarter/internal/user"
)

var (
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrBadCredentials  = errors.New("bad auth data")
	ErrNoSession       = errors.New("no active session")
	ErrTokenCollisions = errors.New("could not issue a unique session token")
)

// maxTokenAttempts bounds retries when a new token hash collides with a stored one
const maxTokenAttempts = 3

// Store is the credential store used by Service
type Store interface {
	Exists(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, u *user.User) error
	Update(ctx context.Context, u *user.User, columns ...string) error
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindBySessionToken(ctx context.Context, tokenHash string) (*user.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	ClearSession(ctx context.Context, id uuid.UUID) error
}

// Session is an issued session: the plaintext token goes to the client, only its hash is stored
type Session struct {
	User      *user.User
	Token     string
	ExpiresAt time.Time
}

// Service handles registration, login and session lookups
type Service struct {
	store      Store
	cache      SessionCache
	hasher     PasswordHasher
	newToken   TokenGenerator
	logger     *logging.Logger
	sessionTTL time.Duration
	now        func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// Option customizes a Service
type Option func(*Service)

// WithTokenGenerator replaces the session token generator
func WithTokenGenerator(gen TokenGenerator) Option {
	return func(s *Service) { s.newToken = gen }
}

// WithClock replaces the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(
	store Store,
	cache SessionCache,
	hasher PasswordHasher,
	logger *logging.Logger,
	sessionTTL time.Duration,
	opts ...Option,
) *Service {
	s := &Service{
		store:      store,
		cache:      cache,
		hasher:     hasher,
		newToken:   GenerateSessionToken,
		logger:     logger,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account and opens its first session.
// The existence check only short-circuits the common case; the store's unique
// email constraint decides concurrent registrations.
func (s *Service) Register(ctx context.Context, email, password string) (*Session, error) {
	exists, err := s.store.Exists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	if err := user.ValidateCredentials(email, password); err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := user.New(email, passwordHash)
	session, err := s.issueSession(ctx, u, s.store.Insert)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return session, nil
}

// Login checks credentials and rotates the user's session token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		s.burnVerify(password)
		return nil, ErrBadCredentials
	}

	existing, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			s.burnVerify(password)
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := s.hasher.Verify(password, existing.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, ErrBadCredentials
	}

	previous := existing.SessionTokenHash

	session, err := s.issueSession(ctx, existing, s.saveSession)
	if err != nil {
		return nil, fmt.Errorf("failed to rotate session: %w", err)
	}

	if previous != nil {
		s.forget(ctx, *previous)
	}

	return session, nil
}

// IsLoggedIn reports whether token belongs to a live session. It never modifies user records.
func (s *Service) IsLoggedIn(ctx context.Context, token string) bool {
	_, err := s.CurrentUser(ctx, token)
	if err != nil && !errors.Is(err, ErrNoSession) {
		s.logger.Error("session lookup failed", "error", err.Error())
	}
	return err == nil
}

// CurrentUser returns the user holding token, or ErrNoSession.
// The cache only names a candidate user; the stored record decides.
func (s *Service) CurrentUser(ctx context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	tokenHash := HashToken(token)
	now := s.now()

	if u, ok := s.cachedUser(ctx, tokenHash, now); ok {
		return u, nil
	}

	u, err := s.store.FindBySessionToken(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	if !u.HasSessionAt(now) {
		return nil, ErrNoSession
	}

	ttl := s.sessionTTL
	if u.SessionExpiresAt != nil {
		ttl = u.SessionExpiresAt.Sub(now)
	}
	s.remember(ctx, tokenHash, u.ID, ttl)
	return u, nil
}

// cachedUser resolves tokenHash through the cache and confirms it against the store.
// Stale entries are evicted and reported as a miss.
func (s *Service) cachedUser(ctx context.Context, tokenHash string, now time.Time) (*user.User, bool) {
	userID, err := s.cache.Get(ctx, tokenHash)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn("session cache read failed", "error", err.Error())
		}
		return nil, false
	}

	u, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			s.logger.Warn("cached session lookup failed", "error", err.Error())
			return nil, false
		}
		s.forget(ctx, tokenHash)
		return nil, false
	}

	if u.SessionTokenHash == nil || *u.SessionTokenHash != tokenHash || !u.HasSessionAt(now) {
		s.forget(ctx, tokenHash)
		return nil, false
	}
	return u, true
}

// Logout ends the session identified by token. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	u, err := s.CurrentUser(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil
		}
		return err
	}

	return s.endSession(ctx, u)
}

// Revoke ends whatever session the user with email holds
func (s *Service) Revoke(ctx context.Context, email string) error {
	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	return s.endSession(ctx, u)
}

func (s *Service) endSession(ctx context.Context, u *user.User) error {
	if u.SessionTokenHash != nil {
		s.forget(ctx, *u.SessionTokenHash)
	}

	if err := s.store.ClearSession(ctx, u.ID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// issueSession attaches a fresh token to u and persists it with save,
// retrying when the token hash collides with another user's session.
func (s *Service) issueSession(ctx context.Context, u *user.User, save func(context.Context, *user.User) error) (*Session, error) {
	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		token, err := s.newToken()
		if err != nil {
			return nil, fmt.Errorf("failed to generate session token: %w", err)
		}

		tokenHash := HashToken(token)
		expiresAt := s.now().Add(s.sessionTTL)
		u.SetSession(tokenHash, expiresAt)

		err = save(ctx, u)
		if errors.Is(err, user.ErrSessionCollision) {
			s.logger.Warn("session token collision, regenerating", "attempt", attempt+1)
			continue
		}
		if err != nil {
			return nil, err
		}

		s.remember(ctx, tokenHash, u.ID, s.sessionTTL)
		return &Session{User: u, Token: token, ExpiresAt: expiresAt}, nil
	}

	return nil, ErrTokenCollisions
}

// saveSession writes only the session columns, leaving concurrent profile edits alone
func (s *Service) saveSession(ctx context.Context, u *user.User) error {
	return s.store.Update(ctx, u, user.SessionColumns...)
}

func (s *Service) remember(ctx context.Context, tokenHash string, userID uuid.UUID, ttl time.Duration) {
	if err := s.cache.Set(ctx, tokenHash, userID, ttl); err != nil {
		s.logger.Warn("failed to cache session", "error", err.Error())
	}
}

func (s *Service) forget(ctx context.Context, tokenHash string) {
	if err := s.cache.Delete(ctx, tokenHash); err != nil {
		s.logger.Warn("failed to evict cached session", "error", err.Error())
	}
}

// burnVerify spends the same hashing time as a real password check
func (s *Service) burnVerify(password string) {
	_, _ = s.hasher.Verify(password, s.dummyPasswordHash())
}

func (s *Service) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("not-a-real-password")
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}
