package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmynk/billbook/internal/models"
	"github.com/mmynk/billbook/internal/storage"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

// newTestManager returns a manager on a fresh store along with the IDs of
// users registered in it, one per name.
func newTestManager(t *testing.T, names ...string) (*SessionManager, *fakeClock, []string) {
	t.Helper()

	store := newTestStore(t)
	var ids []string
	for _, name := range names {
		user := models.NewUser(name, name+"@example.com", "pw")
		if err := store.CreateUser(context.Background(), user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		ids = append(ids, user.ID)
	}

	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	tokens := NewJWTManager("test-secret")
	tokens.now = clock.Now

	m := NewSessionManager(store, store, tokens, time.Hour)
	m.now = clock.Now
	return m, clock, ids
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	m, _, users := newTestManager(t, "alice")

	session, token, err := m.Start(ctx, users[0])
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if token == "" {
		t.Fatal("Expected a token")
	}
	if session.ExpiresAt-session.CreatedAt != int64(time.Hour/time.Second) {
		t.Errorf("Session lifetime = %ds, want 3600s", session.ExpiresAt-session.CreatedAt)
	}

	got, err := m.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.ID != session.ID || got.UserID != users[0] {
		t.Errorf("Resolved %+v, want %+v", got, session)
	}

	if err := m.End(ctx, token); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if _, err := m.Resolve(ctx, token); !errors.Is(err, ErrNoSession) {
		t.Errorf("After End: expected ErrNoSession, got %v", err)
	}

	// Ending twice is harmless.
	if err := m.End(ctx, token); err != nil {
		t.Errorf("Second End failed: %v", err)
	}
}

func TestResolveRejects(t *testing.T) {
	ctx := context.Background()
	m, clock, users := newTestManager(t, "alice")

	_, token, err := m.Start(ctx, users[0])
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	t.Run("empty token", func(t *testing.T) {
		if _, err := m.Resolve(ctx, ""); !errors.Is(err, ErrNoSession) {
			t.Errorf("Expected ErrNoSession, got %v", err)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if _, err := m.Resolve(ctx, "not-a-jwt"); !errors.Is(err, ErrNoSession) {
			t.Errorf("Expected ErrNoSession, got %v", err)
		}
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := NewJWTManager("other-secret")
		other.now = clock.Now
		forged, err := other.Generate(&models.Session{
			ID:        "forged",
			UserID:    users[0],
			CreatedAt: clock.now.Unix(),
			ExpiresAt: clock.now.Add(time.Hour).Unix(),
		})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := m.Resolve(ctx, forged); !errors.Is(err, ErrNoSession) {
			t.Errorf("Expected ErrNoSession, got %v", err)
		}
	})

	t.Run("valid signature but unknown session", func(t *testing.T) {
		orphan, err := m.tokens.Generate(&models.Session{
			ID:        "missing",
			UserID:    users[0],
			CreatedAt: clock.now.Unix(),
			ExpiresAt: clock.now.Add(time.Hour).Unix(),
		})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := m.Resolve(ctx, orphan); !errors.Is(err, ErrNoSession) {
			t.Errorf("Expected ErrNoSession, got %v", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		clock.now = clock.now.Add(2 * time.Hour)
		if _, err := m.Resolve(ctx, token); !errors.Is(err, ErrNoSession) {
			t.Errorf("Expected ErrNoSession, got %v", err)
		}
	})
}

func TestSweepExpired(t *testing.T) {
	ctx := context.Background()
	m, clock, users := newTestManager(t, "alice", "bob", "carol")

	for _, user := range users[:2] {
		if _, _, err := m.Start(ctx, user); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
	}

	clock.now = clock.now.Add(30 * time.Minute)
	_, live, err := m.Start(ctx, users[2])
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	clock.now = clock.now.Add(45 * time.Minute)
	removed, err := m.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("SweepExpired failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("Removed %d sessions, want 2", removed)
	}

	if _, err := m.Resolve(ctx, live); err != nil {
		t.Errorf("Unexpired session lost: %v", err)
	}
}

type stubUsers struct {
	err error
}

func (s stubUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.User{ID: id}, nil
}

func TestResolveChecksUser(t *testing.T) {
	ctx := context.Background()
	m, _, users := newTestManager(t, "alice")

	session, token, err := m.Start(ctx, users[0])
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	t.Run("lookup failure", func(t *testing.T) {
		m.users = stubUsers{err: errors.New("connection refused")}
		_, err := m.Resolve(ctx, token)
		if err == nil || errors.Is(err, ErrNoSession) {
			t.Fatalf("Expected a storage error, got %v", err)
		}
		if _, err := m.store.GetSession(ctx, session.ID); err != nil {
			t.Errorf("Session removed after transient failure: %v", err)
		}
	})

	t.Run("deleted user", func(t *testing.T) {
		m.users = stubUsers{err: storage.ErrNotFound}
		if _, err := m.Resolve(ctx, token); !errors.Is(err, ErrNoSession) {
			t.Fatalf("Expected ErrNoSession, got %v", err)
		}
		if _, err := m.store.GetSession(ctx, session.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected session to be deleted, got %v", err)
		}
	})
}
