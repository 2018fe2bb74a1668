package domain

import "errors"

// Sentinel errors for the investment core. Services wrap these with %w and
// context; handlers map them to HTTP status codes via response.StatusForError.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidState        = errors.New("invalid state")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidOperation    = errors.New("invalid operation")
	ErrForbidden           = errors.New("forbidden")

	// ErrConflict signals a lost race against a concurrent writer (guarded
	// update matched zero rows). The operation rolled back; callers may retry.
	ErrConflict = errors.New("conflicting concurrent update")
)
