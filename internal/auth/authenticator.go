package auth

import (
	"context"

	"github.com/mmynk/billbook/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping credential schemes without changing the
// service layer code.
type Authenticator interface {
	// Register creates a new user account with the given name, email and credential.
	// Returns ErrEmailExists when the email is already registered.
	Register(ctx context.Context, name, email, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	// Returns ErrInvalidCredentials if authentication fails.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
