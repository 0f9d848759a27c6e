package recurrence

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

var (
	// ErrUnsupportedRule indicates a rule that matches no known form.
	ErrUnsupportedRule = errors.New("unsupported recurrence rule")
	// ErrNoOccurrence indicates a valid rule that never fires again.
	ErrNoOccurrence = errors.New("recurrence has no next occurrence")
)

var everyPattern = regexp.MustCompile(`^every(?: (\d+))? (day|week|month|year)s?$`)

// Evaluator computes next occurrences for the rules written after 🔁.
type Evaluator struct{}

// NewEvaluator creates a recurrence evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Next returns the first occurrence strictly after ref. The result is a
// calendar date in UTC.
func (e *Evaluator) Next(rule string, ref time.Time) (time.Time, error) {
	rule = strings.ToLower(strings.Join(strings.Fields(rule), " "))
	from := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)

	switch rule {
	case "every weekday":
		next := from.AddDate(0, 0, 1)
		for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
			next = next.AddDate(0, 0, 1)
		}
		return next, nil
	}

	if m := everyPattern.FindStringSubmatch(rule); m != nil {
		n := 1
		if m[1] != "" {
			v, err := strconv.Atoi(m[1])
			if err != nil || v <= 0 {
				return time.Time{}, fmt.Errorf("%w: %q", ErrUnsupportedRule, rule)
			}
			n = v
		}
		switch m[2] {
		case "day":
			return from.AddDate(0, 0, n), nil
		case "week":
			return from.AddDate(0, 0, 7*n), nil
		case "month":
			return addMonths(from, n), nil
		default:
			return addMonths(from, 12*n), nil
		}
	}

	if strings.HasPrefix(rule, "@") || len(strings.Fields(rule)) == 5 {
		return nextCronDay(rule, from)
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnsupportedRule, rule)
}

// addMonths clamps to the last day of the target month, so Jan 31 + 1 month
// is Feb 28/29 rather than early March.
func addMonths(d time.Time, n int) time.Time {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	last := first.AddDate(0, 1, -1).Day()
	day := d.Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// nextCronDay returns the day of the first firing after the whole of from's
// day. Standard 5-field expressions and @daily/@weekly/@monthly/@yearly are
// accepted; times of day only matter for whether a day fires at all.
func nextCronDay(expr string, from time.Time) (time.Time, error) {
	if strings.HasPrefix(expr, "@every") {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnsupportedRule, expr)
	}
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrUnsupportedRule, expr, err)
	}
	endOfDay := from.AddDate(0, 0, 1).Add(-time.Second)
	next := sched.Next(endOfDay)
	if next.IsZero() {
		return time.Time{}, fmt.Errorf("%w: %q", ErrNoOccurrence, expr)
	}
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, time.UTC), nil
}
