package task

import (
	"strings"
	"time"
)

// RecurrenceEvaluator computes the next occurrence of a recurrence rule.
type RecurrenceEvaluator interface {
	Next(rule string, ref time.Time) (time.Time, error)
}

// Toggle flips the completion state and returns the replacement tasks.
// Completing a recurring task prepends its next occurrence, so the result
// is ordered next occurrence first, toggled task second. If the next date
// cannot be computed only the toggled task is returned.
func (r Record) Toggle(now time.Time, ev RecurrenceEvaluator) []Record {
	toggled := r
	if r.Status == StatusDone {
		toggled.Status = StatusTodo
		toggled.Done = nil
		toggled.OriginalStatus = todoGlyph
		return []Record{toggled}
	}

	toggled.Status = StatusDone
	toggled.Done = datePtr(DateOf(now))
	toggled.OriginalStatus = doneGlyph

	if r.Recurrence == "" || ev == nil {
		return []Record{toggled}
	}

	ref := DateOf(now)
	if r.Due != nil {
		ref = *r.Due
	}
	next, err := ev.Next(r.Recurrence, ref)
	if err != nil {
		return []Record{toggled}
	}

	occurrence := r
	occurrence.Status = StatusTodo
	occurrence.Done = nil
	occurrence.OriginalStatus = todoGlyph
	occurrence.BlockLink = ""
	occurrence.Due = datePtr(DateOf(next))
	return []Record{occurrence, toggled}
}

// ToggleLine toggles a single raw line in place. It reports false when the
// line is not a task, leaving it to the caller to keep the line unchanged.
func ToggleLine(line, lineBreak string, s Settings, now time.Time, ev RecurrenceEvaluator) (string, bool) {
	rec, ok := ParseLine(line, OriginKey{}, nil, s)
	if !ok {
		return line, false
	}
	toggled := rec.Toggle(now, ev)
	lines := make([]string, 0, len(toggled))
	for _, t := range toggled {
		lines = append(lines, t.ToFileLine())
	}
	return strings.Join(lines, lineBreak), true
}
