package workspace

import (
	"log/slog"
	"time"

	"github.com/rpggio/tasklens/internal/domain/task"
)

// Options carries the optional collaborators of a Service.
type Options struct {
	Settings  task.Settings
	Evaluator task.RecurrenceEvaluator
	Index     TaskIndex
	Activity  ActivityLogger
	Committer Committer
	Clock     func() time.Time
	Logger    *slog.Logger
}

// ListOptions narrows ListTasks.
type ListOptions struct {
	Path  string
	Limit int
}
