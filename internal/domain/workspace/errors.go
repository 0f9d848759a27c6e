package workspace

import "errors"

var (
	// ErrTaskNotFound indicates no task exists at the given origin.
	ErrTaskNotFound = errors.New("task not found")
	// ErrSearchUnavailable indicates the service runs without a search index.
	ErrSearchUnavailable = errors.New("task search unavailable")
	// ErrInvalidDirection indicates an unknown priority shift.
	ErrInvalidDirection = errors.New("invalid priority direction")
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
