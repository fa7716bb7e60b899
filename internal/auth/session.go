package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/billbook/internal/models"
	"github.com/mmynk/billbook/internal/storage"
)

// CookieName is the browser cookie carrying the session token.
const CookieName = "billbook_session"

var ErrNoSession = errors.New("no active session")

// UserLookup finds the account a session belongs to.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// SessionManager ties signed cookie tokens to server-side session records.
type SessionManager struct {
	store  storage.SessionStore
	users  UserLookup
	tokens *JWTManager
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionManager creates a session manager issuing sessions that live for ttl.
// Sessions are kept in store, which may differ from where users live.
func NewSessionManager(store storage.SessionStore, users UserLookup, tokens *JWTManager, ttl time.Duration) *SessionManager {
	return &SessionManager{
		store:  store,
		users:  users,
		tokens: tokens,
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the lifetime of new sessions.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Start records a new session for the user and returns it with its signed token.
func (m *SessionManager) Start(ctx context.Context, userID string) (*models.Session, string, error) {
	now := m.now()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(m.ttl).Unix(),
	}

	if err := m.store.CreateSession(ctx, session); err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	token, err := m.tokens.Generate(session)
	if err != nil {
		_ = m.store.DeleteSession(ctx, session.ID)
		return nil, "", err
	}

	return session, token, nil
}

// Resolve returns the live session named by token. Any token that does not
// map to an unexpired session of an existing user yields ErrNoSession;
// storage failures are returned wrapped.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	claims, err := m.tokens.Validate(token)
	if err != nil {
		return nil, ErrNoSession
	}

	session, err := m.store.GetSession(ctx, claims.SessionID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.UserID != claims.UserID {
		return nil, ErrNoSession
	}

	if session.Expired(m.now()) {
		_ = m.store.DeleteSession(ctx, session.ID)
		return nil, ErrNoSession
	}

	// A session outlives a deleted user only in a separate session store.
	if _, err := m.users.GetUserByID(ctx, session.UserID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			_ = m.store.DeleteSession(ctx, session.ID)
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}

	return session, nil
}

// End deletes the session named by token. Unknown or invalid tokens are ignored.
func (m *SessionManager) End(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	claims, err := m.tokens.Validate(token)
	if err != nil {
		return nil
	}

	if err := m.store.DeleteSession(ctx, claims.SessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// SweepExpired removes every session that has expired by now.
func (m *SessionManager) SweepExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpiredSessions(ctx, m.now())
}
