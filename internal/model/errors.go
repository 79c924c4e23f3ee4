package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound       = errors.New("player not found")
	ErrInvalidStudentNumber = errors.New("invalid student number format")
	ErrMissingName          = errors.New("first name and last name are required")
	ErrNameTooLong          = errors.New("name exceeds maximum length")
	ErrDuplicateStudent     = errors.New("student number already registered")

	// Game result errors
	ErrMissingResult     = errors.New("result is required")
	ErrMissingDatePlayed = errors.New("date played is required")
	ErrInvalidRetryCount = errors.New("retry count must not be negative")
	ErrDateOutOfRange    = errors.New("date is outside the supported range")

	// ErrInternal hides unexpected failures from callers; the cause is logged
	// where it occurs.
	ErrInternal = errors.New("internal error")
)
