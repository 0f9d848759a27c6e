package repository

import (
	"context"

	"github.com/rpggio/tasklens/internal/domain/activity"
	"github.com/rpggio/tasklens/internal/domain/task"
	"github.com/rpggio/tasklens/internal/domain/workspace"
)

// ActivityRepository manages activity log persistence
type ActivityRepository interface {
	Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error
	List(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// TaskIndexRepository keeps the full-text index of task lines
type TaskIndexRepository interface {
	ReplaceAll(ctx context.Context, records []task.Record) error
	Search(ctx context.Context, text string, limit int) ([]workspace.SearchHit, error)
}

// APIKeyRepository maps bearer tokens to tenants
type APIKeyRepository interface {
	Create(ctx context.Context, token, tenantID, description string) error
	ResolveTenant(ctx context.Context, token string) (string, error)
}
