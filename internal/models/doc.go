// Package models defines the core domain models for billbook.
//
// # Models
//
//   - User: a registered account, identified by a unique email
//   - Group: a named collection of bills, owned by the user who created it
//   - Bill: a single dated amount recorded against a group
//   - Session: server-side login state referenced by the session cookie
//
// # Conventions
//
// Relationships are expressed with ID strings rather than pointers.
// Record IDs are UUIDv7 strings, so sorting by ID sorts by creation time.
// Timestamps that only order records are Unix seconds (int64).
package models
