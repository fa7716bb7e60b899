package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
// Users are created on registration and never mutated or deleted.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name entered at registration.
	Name string

	// Email is the user's email address (unique). Used to log in.
	Email string

	// Password is the stored credential. Its encoding depends on the
	// configured password scheme: the raw password for "plain", a bcrypt
	// hash for "bcrypt".
	Password string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewUser creates a user with a fresh ID and creation time.
func NewUser(name, email, password string) *User {
	return &User{
		ID:        NewID(),
		Name:      name,
		Email:     email,
		Password:  password,
		CreatedAt: time.Now().Unix(),
	}
}

// NewID returns a time-ordered record identifier.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
