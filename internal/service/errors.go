// Package service holds the account, group and bill operations behind the
// web handlers. Handlers map the errors declared here to form messages.
package service

import "errors"

var (
	ErrNameRequired        = errors.New("name is required")
	ErrEmailRequired       = errors.New("email is required")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrDescriptionRequired = errors.New("description is required")
	ErrInvalidDate         = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidAmount       = errors.New("amount must be a positive number with at most two decimal places")
	ErrGroupNotFound       = errors.New("group not found")
)
