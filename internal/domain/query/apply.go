package query

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/rpggio/tasklens/internal/domain/task"
)

// Apply filters, sorts and limits records. The input slice is not modified.
func (q *Query) Apply(records []task.Record) []task.Record {
	out := ApplyFilters(q.Filters, records)
	out = sortRecords(out, q.Sorting, q.Today)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// ApplyFilters keeps the records matched by every filter.
func ApplyFilters(filters []Filter, records []task.Record) []task.Record {
	out := make([]task.Record, 0, len(records))
	for _, r := range records {
		if matchesAll(filters, r) {
			out = append(out, r)
		}
	}
	return out
}

func matchesAll(filters []Filter, r task.Record) bool {
	for _, f := range filters {
		if !f.Match(r) {
			return false
		}
	}
	return true
}

type scored struct {
	rec     task.Record
	urgency float64
}

func sortRecords(records []task.Record, sorting []Sorter, today time.Time) []task.Record {
	if len(sorting) == 0 {
		return records
	}

	items := make([]scored, len(records))
	for i, r := range records {
		items[i] = scored{rec: r, urgency: task.Urgency(r, today)}
	}

	slices.SortStableFunc(items, func(a, b scored) int {
		for _, s := range sorting {
			c := compareBy(s.Key, a, b)
			if s.Reverse {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})

	out := make([]task.Record, len(items))
	for i, it := range items {
		out[i] = it.rec
	}
	return out
}

func compareBy(key SortKey, a, b scored) int {
	switch key {
	case SortUrgency:
		// most urgent first
		return cmp.Compare(b.urgency, a.urgency)
	case SortStatus:
		return cmp.Compare(statusRank(a.rec.Status), statusRank(b.rec.Status))
	case SortPriority:
		return cmp.Compare(a.rec.Priority, b.rec.Priority)
	case SortDue:
		return compareDates(a.rec.Due, b.rec.Due)
	case SortDone:
		return compareDates(a.rec.Done, b.rec.Done)
	case SortPath:
		return strings.Compare(a.rec.Origin.Path, b.rec.Origin.Path)
	case SortDescription:
		return strings.Compare(strings.ToLower(a.rec.Description), strings.ToLower(b.rec.Description))
	case SortHeading:
		return strings.Compare(headerText(a.rec), headerText(b.rec))
	default:
		return 0
	}
}

func statusRank(s task.Status) int {
	if s == task.StatusTodo {
		return 0
	}
	return 1
}

// compareDates puts missing dates after present ones.
func compareDates(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}

func headerText(r task.Record) string {
	if r.Header == nil {
		return ""
	}
	return *r.Header
}
