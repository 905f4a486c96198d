package domain

import "errors"

var (
	// validation errors, raised before any storage access
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidDate  = errors.New("invalid date")

	// state errors
	ErrNotFound       = errors.New("not found")
	ErrAlreadyDeleted = errors.New("already deleted")
	ErrEventDeleted   = errors.New("event has been deleted")

	// uniqueness violations translated from storage constraints
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEventName = errors.New("event name already exists")

	// ErrStorage wraps any other persistence failure.
	ErrStorage = errors.New("storage error")
)
