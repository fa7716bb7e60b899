package auth

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mmynk/billbook/internal/storage/sqlite"
)

func newTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestParseScheme(t *testing.T) {
	for _, name := range []string{"plain", "bcrypt"} {
		if _, err := ParseScheme(name); err != nil {
			t.Errorf("ParseScheme(%q) failed: %v", name, err)
		}
	}
	if _, err := ParseScheme("md5"); err == nil {
		t.Error("Expected error for unknown scheme")
	}
}

func TestPasswordAuthenticator(t *testing.T) {
	tests := []struct {
		name   string
		scheme Scheme
	}{
		{name: "plain", scheme: SchemePlain},
		{name: "bcrypt", scheme: SchemeBcrypt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			a := NewPasswordAuthenticator(newTestStore(t), tt.scheme)

			user, err := a.Register(ctx, "Alice", "alice@example.com", "s3cret")
			if err != nil {
				t.Fatalf("Register failed: %v", err)
			}

			if tt.scheme == SchemePlain && user.Password != "s3cret" {
				t.Errorf("Plain scheme stored %q", user.Password)
			}
			if tt.scheme == SchemeBcrypt && !strings.HasPrefix(user.Password, "$2") {
				t.Errorf("Bcrypt scheme stored %q", user.Password)
			}

			got, err := a.Authenticate(ctx, "alice@example.com", "s3cret")
			if err != nil {
				t.Fatalf("Authenticate failed: %v", err)
			}
			if got.ID != user.ID {
				t.Errorf("Authenticated user = %s, want %s", got.ID, user.ID)
			}

			if _, err := a.Authenticate(ctx, "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Wrong password: expected ErrInvalidCredentials, got %v", err)
			}
			if _, err := a.Authenticate(ctx, "bob@example.com", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Unknown email: expected ErrInvalidCredentials, got %v", err)
			}
			if _, err := a.Register(ctx, "Alice Again", "alice@example.com", "other"); !errors.Is(err, ErrEmailExists) {
				t.Errorf("Duplicate email: expected ErrEmailExists, got %v", err)
			}
		})
	}
}

func TestRegisterRejectsEmptyPassword(t *testing.T) {
	a := NewPasswordAuthenticator(newTestStore(t), SchemePlain)

	_, err := a.Register(context.Background(), "Alice", "alice@example.com", "")
	if !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("Expected ErrEmptyPassword, got %v", err)
	}
}
