package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/billbook/internal/models"
	"github.com/mmynk/billbook/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmptyPassword      = errors.New("password is required")
	ErrEmailExists        = errors.New("email already in use")
)

// Scheme selects how passwords are stored and compared.
type Scheme string

const (
	// SchemePlain stores the password as entered and compares exactly.
	SchemePlain Scheme = "plain"
	// SchemeBcrypt stores a bcrypt hash.
	SchemeBcrypt Scheme = "bcrypt"
)

// ParseScheme validates a configured scheme name.
func ParseScheme(name string) (Scheme, error) {
	switch Scheme(name) {
	case SchemePlain, SchemeBcrypt:
		return Scheme(name), nil
	default:
		return "", fmt.Errorf("unknown password scheme %q", name)
	}
}

func (s Scheme) encode(credential string) (string, error) {
	if s == SchemeBcrypt {
		hashed, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
		if err != nil {
			return "", fmt.Errorf("failed to hash password: %w", err)
		}
		return string(hashed), nil
	}
	return credential, nil
}

func (s Scheme) verify(stored, credential string) bool {
	if s == SchemeBcrypt {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(credential)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(credential)) == 1
}

// UserStorage defines the interface for user persistence operations.
// This allows the authenticator to be independent of the storage implementation.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// PasswordAuthenticator implements email + password authentication.
type PasswordAuthenticator struct {
	storage UserStorage
	scheme  Scheme
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(storage UserStorage, scheme Scheme) *PasswordAuthenticator {
	if scheme == "" {
		scheme = SchemePlain
	}
	return &PasswordAuthenticator{
		storage: storage,
		scheme:  scheme,
	}
}

// ValidateCredential rejects empty passwords.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if credential == "" {
		return ErrEmptyPassword
	}
	return nil
}

// Register creates a new user account.
func (a *PasswordAuthenticator) Register(ctx context.Context, name, email, credential string) (*models.User, error) {
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	_, err := a.storage.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	stored, err := a.scheme.encode(credential)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(name, email, stored)

	// The unique index still catches a concurrent registration of the same email.
	if err := a.storage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies the email and password, returning the user if valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string) (*models.User, error) {
	user, err := a.storage.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !a.scheme.verify(user.Password, credential) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
