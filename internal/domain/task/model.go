package task

import (
	"regexp"
	"strings"
	"time"
)

// Status represents the completion state of a task.
type Status string

const (
	StatusTodo Status = "todo"
	StatusDone Status = "done"
)

// Priority is ordered from most to least important. None sits between
// Medium and Low; Waiting marks deferred work and sorts last.
type Priority int

const (
	PriorityHigh Priority = iota + 1
	PriorityMedium
	PriorityNone
	PriorityLow
	PriorityWaiting
)

const (
	doneGlyph  = "x"
	todoGlyph  = " "
	dateLayout = "2006-01-02"
)

// OriginKey locates a task inside the vault. Only the vault reader and
// writer interpret it.
type OriginKey struct {
	Path         string `json:"path"`
	SectionStart int    `json:"section_start"`
	SectionIndex int    `json:"section_index"`
}

// Record is a single parsed task line.
type Record struct {
	Status         Status     `json:"status"`
	Description    string     `json:"description"`
	Origin         OriginKey  `json:"origin"`
	Header         *string    `json:"header,omitempty"`
	Priority       Priority   `json:"priority"`
	Due            *time.Time `json:"due,omitempty"`
	Done           *time.Time `json:"done,omitempty"`
	Recurrence     string     `json:"recurrence,omitempty"`
	BlockLink      string     `json:"block_link,omitempty"`
	Indentation    string     `json:"indentation"`
	OriginalStatus string     `json:"original_status"`
}

// Settings controls which checklist items count as tasks.
type Settings struct {
	GlobalFilter       string
	RemoveGlobalFilter bool
}

// IsRecurring reports whether the task carries a recurrence rule.
func (r Record) IsRecurring() bool {
	return r.Recurrence != ""
}

var filenamePattern = regexp.MustCompile(`([^/]+)\.md$`)

// Filename returns the note name without directory or extension.
func (r Record) Filename() string {
	m := filenamePattern.FindStringSubmatch(r.Origin.Path)
	if m == nil {
		return ""
	}
	return m[1]
}

// LinkText is the backlink label shown next to query results.
func (r Record) LinkText() string {
	filename := r.Filename()
	if r.Header != nil && *r.Header != filename {
		return filename + " > " + *r.Header
	}
	return filename
}

// DisplayDescription strips the global filter marker when configured to.
func (r Record) DisplayDescription(s Settings) string {
	if !s.RemoveGlobalFilter || s.GlobalFilter == "" {
		return r.Description
	}
	return strings.TrimSpace(strings.Replace(r.Description, s.GlobalFilter, "", 1))
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO calendar date.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func datePtr(t time.Time) *time.Time {
	return &t
}
