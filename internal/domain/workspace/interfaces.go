package workspace

import (
	"context"

	"github.com/rpggio/tasklens/internal/domain/activity"
	"github.com/rpggio/tasklens/internal/domain/task"
)

// Vault reads tasks from notes and writes edited tasks back.
type Vault interface {
	Load(ctx context.Context) ([]task.Record, error)
	ReadNote(ctx context.Context, path string) (string, error)
	// Replace fails when the note no longer holds original at its origin.
	Replace(ctx context.Context, original task.Record, records []task.Record) error
}

// TaskIndex keeps a searchable copy of the current tasks.
type TaskIndex interface {
	ReplaceAll(ctx context.Context, records []task.Record) error
	Search(ctx context.Context, text string, limit int) ([]SearchHit, error)
}

// ActivityLogger records edits made through the service.
type ActivityLogger interface {
	LogActivity(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error
}

// Committer records edited notes in version control.
type Committer interface {
	Commit(ctx context.Context, message string, paths ...string) error
}
