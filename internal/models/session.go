package models

import "time"

// Session is the server-side half of a login. The browser holds a signed
// token naming the session ID; the session row decides whether it is live.
type Session struct {
	// ID is the random session identifier (UUIDv4).
	ID string

	// UserID is the logged-in user.
	UserID string

	// CreatedAt is the Unix timestamp of the login.
	CreatedAt int64

	// ExpiresAt is the Unix timestamp after which the session is dead.
	ExpiresAt int64
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return now.Unix() >= s.ExpiresAt
}

// TTL returns the remaining lifetime at now, or zero if expired.
func (s *Session) TTL(now time.Time) time.Duration {
	d := time.Unix(s.ExpiresAt, 0).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
