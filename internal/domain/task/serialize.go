package task

import "strings"

const (
	dueGlyph        = "📅"
	doneDateGlyph   = "✅"
	recurrenceGlyph = "🔁"
)

// LayoutOptions switches parts of a rendered task or result list off.
type LayoutOptions struct {
	HideTaskCount  bool `json:"hide_task_count,omitempty"`
	HideBacklinks  bool `json:"hide_backlinks,omitempty"`
	HidePriority   bool `json:"hide_priority,omitempty"`
	HideDoneDate   bool `json:"hide_done_date,omitempty"`
	HideDueDate    bool `json:"hide_due_date,omitempty"`
	HideEditButton bool `json:"hide_edit_button,omitempty"`
	ShortMode      bool `json:"short_mode,omitempty"`
}

// String renders the task body and metadata in canonical order.
func (r Record) String(layout LayoutOptions) string {
	var b strings.Builder
	b.WriteString(r.Description)

	if !layout.HidePriority {
		if glyph := r.Priority.Glyph(); glyph != "" {
			b.WriteString(" " + glyph)
		}
	}

	if r.Recurrence != "" {
		b.WriteString(" " + recurrenceGlyph)
		if !layout.ShortMode {
			b.WriteString(" " + r.Recurrence)
		}
	}

	if !layout.HideDueDate && r.Due != nil {
		b.WriteString(" " + dueGlyph)
		if !layout.ShortMode {
			b.WriteString(" " + FormatDate(*r.Due))
		}
	}

	if !layout.HideDoneDate && r.Done != nil {
		b.WriteString(" " + doneDateGlyph)
		if !layout.ShortMode {
			b.WriteString(" " + FormatDate(*r.Done))
		}
	}

	b.WriteString(r.BlockLink)
	return b.String()
}

// ToFileLine renders the full checklist line as it is stored in a note.
func (r Record) ToFileLine() string {
	return r.Indentation + "- [" + r.OriginalStatus + "] " + r.String(LayoutOptions{})
}
