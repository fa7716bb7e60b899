package models

// Group is a named collection of bills.
// Any logged-in user may list groups or add bills to them; the owner is
// recorded but not enforced.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string

	// Description is optional free text.
	Description string

	// UserID is the user who created the group.
	UserID string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}
