package activity

import (
	"context"
	"fmt"
	"time"
)

// Repository persists entries per tenant. List returns newest first.
type Repository interface {
	Log(ctx context.Context, tenantID string, entry *ActivityEntry) error
	List(ctx context.Context, tenantID string, opts ListActivityOptions) ([]ActivityEntry, error)
}

// ListActivityOptions narrows a listing. Zero values match everything.
type ListActivityOptions struct {
	Path         string
	ActivityType *ActivityType
	Since        time.Time // drops entries created before it
	Limit        int
	Offset       int
}

var knownTypes = []ActivityType{
	TypeTaskCompleted,
	TypeTaskReopened,
	TypeTaskRecurred,
	TypePriorityChanged,
	TypeVaultRefreshed,
}

// ParseType validates a type name such as "task_completed".
func ParseType(name string) (ActivityType, error) {
	for _, t := range knownTypes {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown activity type %q", ErrInvalidInput, name)
}

// ParseSince accepts a calendar date (2024-03-15, read as UTC midnight) or an
// RFC 3339 timestamp.
func ParseSince(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: since %q is neither a date nor an RFC 3339 time", ErrInvalidInput, s)
	}
	return t, nil
}
