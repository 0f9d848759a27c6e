package activity

import "errors"

// ErrInvalidInput is returned when an entry is missing.
var ErrInvalidInput = errors.New("invalid activity entry")
