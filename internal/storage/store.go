// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mmynk/billbook/internal/models"
)

// Common errors returned by every Store implementation.
var (
	ErrNotFound    = errors.New("record not found")
	ErrEmailExists = errors.New("email already exists")
)

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts a new user. Returns ErrEmailExists when the email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns ErrNotFound when no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns ErrNotFound when the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// SessionStore persists server-side login sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session *models.Session) error

	// GetSession returns ErrNotFound for unknown (or already removed) sessions.
	// Expiry is checked by the caller.
	GetSession(ctx context.Context, id string) (*models.Session, error)

	// DeleteSession is idempotent.
	DeleteSession(ctx context.Context, id string) error

	// DeleteExpiredSessions removes sessions whose expiry is at or before now
	// and returns how many were removed.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Store defines the interface for billbook storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	UserStore
	SessionStore

	// CreateGroup persists a new group. ID and CreatedAt are filled in when empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup returns ErrNotFound when the group does not exist.
	GetGroup(ctx context.Context, id string) (*models.Group, error)

	// ListGroups returns every group in creation order.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// CreateBill persists a new bill. Returns ErrNotFound when the bill's
	// group does not exist; nothing is written in that case.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// ListBillsByGroup returns the group's bills ordered by date, then creation.
	ListBillsByGroup(ctx context.Context, groupID string) ([]*models.Bill, error)

	// Ping checks connectivity.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
