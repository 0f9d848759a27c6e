package render

import (
	"fmt"
	"strings"

	"github.com/rpggio/tasklens/internal/domain/task"
)

// Loading is shown in place of results until the vault has been read once.
const Loading = "Loading Tasks ..."

const (
	shortBacklink = " 🔗"
	editMarker    = " ✎ "
)

// Line renders one result line: checkbox, task, backlink, and the edit
// locator that toggle_task and shift_priority accept.
func Line(r task.Record, layout task.LayoutOptions, s task.Settings) string {
	display := r
	display.Description = r.DisplayDescription(s)

	var b strings.Builder
	b.WriteString("- [")
	b.WriteString(r.OriginalStatus)
	b.WriteString("] ")
	b.WriteString(display.String(layout))

	if !layout.HideBacklinks && r.Filename() != "" {
		if layout.ShortMode {
			b.WriteString(shortBacklink)
		} else {
			b.WriteString(" (")
			b.WriteString(r.LinkText())
			b.WriteString(")")
		}
	}

	if !layout.HideEditButton && r.Origin.Path != "" {
		b.WriteString(editMarker)
		b.WriteString(Locator(r.Origin))
	}
	return b.String()
}

// Locator formats an origin as path:section_start:index.
func Locator(o task.OriginKey) string {
	return fmt.Sprintf("%s:%d:%d", o.Path, o.SectionStart, o.SectionIndex)
}

// Result renders a query result list followed by the task count.
func Result(records []task.Record, layout task.LayoutOptions, s task.Settings) string {
	lines := make([]string, 0, len(records)+1)
	for _, r := range records {
		lines = append(lines, Line(r, layout, s))
	}
	if !layout.HideTaskCount {
		lines = append(lines, Count(len(records)))
	}
	return strings.Join(lines, "\n")
}

// Count renders "1 task" or "N tasks".
func Count(n int) string {
	if n == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", n)
}

// QueryError renders a query that failed to parse.
func QueryError(err error) string {
	return "Tasks query: " + err.Error()
}
