package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rpggio/tasklens/internal/domain/task"
)

type directive struct {
	pattern *regexp.Regexp
	build   func(q *Query, m []string) error
	// raw directives match the trimmed line as written so free text
	// keeps its spacing; their patterns must be case-insensitive.
	raw bool
}

var directives = []directive{
	{pattern: regexp.MustCompile(`^(not done|done)$`), build: buildStatus},
	{pattern: regexp.MustCompile(`^(due|done) (before|after|on) (.+)$`), build: buildDateRelation},
	{pattern: regexp.MustCompile(`^(no|has) (due|done) date$`), build: buildDatePresence},
	{pattern: regexp.MustCompile(`^priority is (?:(above|below) )?(\S+)$`), build: buildPriority},
	{pattern: regexp.MustCompile(`^is (not )?recurring$`), build: buildRecurring},
	{pattern: regexp.MustCompile(`(?i)^(path|description|heading)\s+(includes|does\s+not\s+include)\s+(.+)$`), build: buildText, raw: true},
	{pattern: regexp.MustCompile(`^sort by (\S+)(?: (reverse|ascending|descending))?$`), build: buildSort},
	{pattern: regexp.MustCompile(`^limit (?:to )?(\S+)(?: tasks?)?$`), build: buildLimit},
	{pattern: regexp.MustCompile(`^(hide|show) (.+)$`), build: buildLayout},
	{pattern: regexp.MustCompile(`^short(?: mode)?$`), build: buildShortMode},
}

// Parse reads a tasks block, one directive per line. Blank lines and lines
// starting with # are skipped. Parsing stops at the first line that is not
// understood and returns a *SyntaxError for it.
func Parse(source string, today time.Time) (*Query, error) {
	q := &Query{
		Source: source,
		Today:  task.DateOf(today),
	}

	for i, raw := range strings.Split(source, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := q.parseDirective(line); err != nil {
			return nil, &SyntaxError{Line: line, LineNo: i + 1, Message: err.Error()}
		}
	}
	return q, nil
}

func (q *Query) parseDirective(line string) error {
	normalized := strings.ToLower(strings.Join(strings.Fields(line), " "))
	for _, d := range directives {
		subject := normalized
		if d.raw {
			subject = line
		}
		if m := d.pattern.FindStringSubmatch(subject); m != nil {
			return d.build(q, m)
		}
	}
	return errUnknownDirective
}

func buildStatus(q *Query, m []string) error {
	want := task.StatusDone
	if m[1] == "not done" {
		want = task.StatusTodo
	}
	q.Filters = append(q.Filters, Filter{
		Source: m[0],
		Match:  func(r task.Record) bool { return r.Status == want },
	})
	return nil
}

func buildDateRelation(q *Query, m []string) error {
	field, relation := m[1], m[2]
	ref, err := parseDateExpr(m[3], q.Today)
	if err != nil {
		return err
	}

	pick := dateField(field)
	var cmp func(d time.Time) bool
	switch relation {
	case "before":
		cmp = func(d time.Time) bool { return d.Before(ref) }
	case "after":
		cmp = func(d time.Time) bool { return d.After(ref) }
	default:
		cmp = func(d time.Time) bool { return d.Equal(ref) }
	}

	q.Filters = append(q.Filters, Filter{
		Source: m[0],
		Match: func(r task.Record) bool {
			d := pick(r)
			return d != nil && cmp(*d)
		},
	})
	return nil
}

func buildDatePresence(q *Query, m []string) error {
	want := m[1] == "has"
	pick := dateField(m[2])
	q.Filters = append(q.Filters, Filter{
		Source: m[0],
		Match:  func(r task.Record) bool { return (pick(r) != nil) == want },
	})
	return nil
}

func dateField(name string) func(task.Record) *time.Time {
	if name == "done" {
		return func(r task.Record) *time.Time { return r.Done }
	}
	return func(r task.Record) *time.Time { return r.Due }
}

func parseDateExpr(expr string, today time.Time) (time.Time, error) {
	switch expr {
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}
	if d, ok := task.ParseDate(expr); ok {
		return d, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", expr)
}

func buildPriority(q *Query, m []string) error {
	level, err := task.ParsePriority(m[2])
	if err != nil {
		return err
	}

	var match func(task.Record) bool
	switch m[1] {
	case "above":
		match = func(r task.Record) bool { return r.Priority < level }
	case "below":
		match = func(r task.Record) bool { return r.Priority > level }
	default:
		match = func(r task.Record) bool { return r.Priority == level }
	}
	q.Filters = append(q.Filters, Filter{Source: m[0], Match: match})
	return nil
}

func buildRecurring(q *Query, m []string) error {
	want := m[1] == ""
	q.Filters = append(q.Filters, Filter{
		Source: m[0],
		Match:  func(r task.Record) bool { return r.IsRecurring() == want },
	})
	return nil
}

func buildText(q *Query, m []string) error {
	field := strings.ToLower(m[1])
	include := strings.EqualFold(m[2], "includes")
	needle := strings.ToLower(m[3])

	var pick func(task.Record) string
	switch field {
	case "path":
		pick = func(r task.Record) string { return r.Origin.Path }
	case "heading":
		pick = func(r task.Record) string {
			if r.Header == nil {
				return ""
			}
			return *r.Header
		}
	default:
		pick = func(r task.Record) string { return r.Description }
	}

	q.Filters = append(q.Filters, Filter{
		Source: m[0],
		Match: func(r task.Record) bool {
			return strings.Contains(strings.ToLower(pick(r)), needle) == include
		},
	})
	return nil
}

var sortKeys = map[string]SortKey{
	"urgency":     SortUrgency,
	"status":      SortStatus,
	"priority":    SortPriority,
	"due":         SortDue,
	"done":        SortDone,
	"path":        SortPath,
	"description": SortDescription,
	"heading":     SortHeading,
}

func buildSort(q *Query, m []string) error {
	key, ok := sortKeys[m[1]]
	if !ok {
		return fmt.Errorf("unknown sort key %q", m[1])
	}
	// urgency is naturally most urgent first, every other key lowest first
	descendingByDefault := key == SortUrgency
	var reverse bool
	switch m[2] {
	case "reverse":
		reverse = true
	case "ascending":
		reverse = descendingByDefault
	case "descending":
		reverse = !descendingByDefault
	}
	q.Sorting = append(q.Sorting, Sorter{Key: key, Reverse: reverse})
	return nil
}

func buildLimit(q *Query, m []string) error {
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return fmt.Errorf("limit must be a positive number")
	}
	q.Limit = n
	return nil
}

func buildLayout(q *Query, m []string) error {
	hide := m[1] == "hide"
	switch m[2] {
	case "task count":
		q.Layout.HideTaskCount = hide
	case "backlink", "backlinks":
		q.Layout.HideBacklinks = hide
	case "priority":
		q.Layout.HidePriority = hide
	case "done date":
		q.Layout.HideDoneDate = hide
	case "due date":
		q.Layout.HideDueDate = hide
	case "edit button":
		q.Layout.HideEditButton = hide
	default:
		return fmt.Errorf("unknown layout option %q", m[2])
	}
	return nil
}

func buildShortMode(q *Query, _ []string) error {
	q.Layout.ShortMode = true
	return nil
}
