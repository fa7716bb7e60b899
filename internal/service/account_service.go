package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/billbook/internal/auth"
	"github.com/mmynk/billbook/internal/metrics"
	"github.com/mmynk/billbook/internal/models"
)

// AccountService handles registration, login and logout.
type AccountService struct {
	authenticator auth.Authenticator
	sessions      *auth.SessionManager
	metrics       metrics.Recorder
}

// NewAccountService creates a new account service.
func NewAccountService(authenticator auth.Authenticator, sessions *auth.SessionManager, recorder metrics.Recorder) *AccountService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AccountService{
		authenticator: authenticator,
		sessions:      sessions,
		metrics:       recorder,
	}
}

// RegisterRequest is the submitted registration form.
type RegisterRequest struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register creates a new user account. A password that differs from its
// confirmation is rejected before anything is looked up or written.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)

	slog.Info("Register request", "email", email)

	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if name == "" {
		return nil, ErrNameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}

	user, err := s.authenticator.Register(ctx, name, email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailExists) || errors.Is(err, auth.ErrEmptyPassword) {
			slog.Warn("Registration rejected", "email", email, "error", err)
			return nil, err
		}
		slog.Error("Registration failed", "email", email, "error", err)
		return nil, fmt.Errorf("failed to register: %w", err)
	}

	s.metrics.IncUserRegistered()
	slog.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// LoginResult carries the logged-in user and the cookie token for the new session.
type LoginResult struct {
	User    *models.User
	Session *models.Session
	Token   string
}

// Login authenticates the user and starts a session.
// Returns auth.ErrInvalidCredentials for any email/password mismatch.
func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	slog.Info("Login request", "email", email)

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.metrics.IncLogin(metrics.LoginFailure)
			slog.Warn("Login failed", "email", email)
			return nil, err
		}
		slog.Error("Login lookup failed", "email", email, "error", err)
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	session, token, err := s.sessions.Start(ctx, user.ID)
	if err != nil {
		slog.Error("Failed to start session", "user_id", user.ID, "error", err)
		return nil, err
	}

	s.metrics.IncLogin(metrics.LoginSuccess)
	slog.Info("User logged in successfully", "user_id", user.ID)
	return &LoginResult{User: user, Session: session, Token: token}, nil
}

// Logout ends the session named by the cookie token, if it still exists.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.End(ctx, token); err != nil {
		slog.Error("Logout failed", "error", err)
		return err
	}
	return nil
}
