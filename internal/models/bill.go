package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day format used for bill dates in forms and storage.
const DateLayout = "2006-01-02"

// Bill is a single dated monetary entry belonging to a group.
// Bills are immutable once created.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// GroupID is the group this bill belongs to.
	GroupID string

	// Description is what the money was spent on.
	Description string

	// Date is the calendar day of the expense, at midnight UTC.
	Date time.Time

	// Amount is the exact bill amount.
	Amount decimal.Decimal

	// CreatedAt is the Unix timestamp when the bill was recorded.
	CreatedAt int64
}

// DateString returns the bill date in DateLayout.
func (b *Bill) DateString() string {
	return b.Date.Format(DateLayout)
}

// AmountString returns the amount with two decimal places.
func (b *Bill) AmountString() string {
	return b.Amount.StringFixed(2)
}
