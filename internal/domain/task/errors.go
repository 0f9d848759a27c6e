package task

import "errors"

var (
	// ErrUnknownPriority indicates a priority name outside the five levels.
	ErrUnknownPriority = errors.New("unknown priority")
)
