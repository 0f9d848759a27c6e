package query

import (
	"time"

	"github.com/rpggio/tasklens/internal/domain/task"
)

// Filter is one directive's predicate. A task is kept only when every
// filter of a query matches.
type Filter struct {
	Source string
	Match  func(task.Record) bool
}

// SortKey names a field tasks can be ordered by.
type SortKey string

const (
	SortUrgency     SortKey = "urgency"
	SortStatus      SortKey = "status"
	SortPriority    SortKey = "priority"
	SortDue         SortKey = "due"
	SortDone        SortKey = "done"
	SortPath        SortKey = "path"
	SortDescription SortKey = "description"
	SortHeading     SortKey = "heading"
)

// Sorter orders tasks by Key; Reverse flips its natural direction.
type Sorter struct {
	Key     SortKey
	Reverse bool
}

// Query is a parsed tasks block. Relative dates were resolved against Today.
type Query struct {
	Source  string
	Filters []Filter
	Sorting []Sorter
	Limit   int
	Layout  task.LayoutOptions
	Today   time.Time
}
