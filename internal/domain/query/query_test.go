package query_test

import (
	"errors"
	"testing"
	"time"

	"github.com/rpggio/tasklens/internal/domain/query"
	"github.com/rpggio/tasklens/internal/domain/task"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

func parse(t *testing.T, line, path string) task.Record {
	t.Helper()
	rec, ok := task.ParseLine(line, task.OriginKey{Path: path}, nil, task.Settings{})
	require.True(t, ok, "not a task: %q", line)
	return rec
}

func descriptions(records []task.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Description)
	}
	return out
}

func sample(t *testing.T) []task.Record {
	return []task.Record{
		parse(t, "- [ ] a low ?? 📅 2024-03-30", "work/a.md"),
		parse(t, "- [x] b done !! 📅 2024-03-01 ✅ 2024-03-02", "work/b.md"),
		parse(t, "- [ ] c overdue !! 📅 2024-03-01", "home/c.md"),
		parse(t, "- [ ] d no date", "home/d.md"),
		parse(t, "- [ ] e tomorrow !? 📅 2024-03-16", "work/e.md"),
	}
}

func TestParse_NotDoneSortByUrgencyLimit(t *testing.T) {
	q, err := query.Parse("not done\nsort by urgency\nlimit 2", today)
	require.NoError(t, err)

	out := q.Apply(sample(t))
	require.Equal(t, []string{"c overdue", "e tomorrow"}, descriptions(out))
	for _, r := range out {
		require.Equal(t, task.StatusTodo, r.Status)
	}
}

func TestParse_FailFast(t *testing.T) {
	_, err := query.Parse("not done\n\n# a comment\nshow me everything\nbogus second line", today)
	require.Error(t, err)
	require.ErrorIs(t, err, query.ErrSyntax)

	var syntaxErr *query.SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	require.Equal(t, "show me everything", syntaxErr.Line)
	require.Equal(t, 4, syntaxErr.LineNo)
	require.Equal(t, "unknown layout option \"me everything\": show me everything", err.Error())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"due before someday", `invalid date "someday": due before someday`},
		{"sort by mood", `unknown sort key "mood": sort by mood`},
		{"limit 0", "limit must be a positive number: limit 0"},
		{"priority is urgent", `unknown priority: "urgent": priority is urgent`},
		{"make coffee", "do not understand query: make coffee"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, err := query.Parse(tt.source, today)
			require.EqualError(t, err, tt.want)
		})
	}
}

func TestFilters(t *testing.T) {
	tests := []struct {
		source string
		want   []string
	}{
		{"done", []string{"b done"}},
		{"due before today", []string{"b done", "c overdue"}},
		{"due after 2024-03-15", []string{"a low", "e tomorrow"}},
		{"due on tomorrow", []string{"e tomorrow"}},
		{"done on yesterday", nil},
		{"done on 2024-03-02", []string{"b done"}},
		{"no due date", []string{"d no date"}},
		{"has done date", []string{"b done"}},
		{"priority is high", []string{"b done", "c overdue"}},
		{"priority is above none", []string{"b done", "c overdue", "e tomorrow"}},
		{"priority is below none", []string{"a low"}},
		{"path includes WORK/", []string{"a low", "b done", "e tomorrow"}},
		{"path does not include work", []string{"c overdue", "d no date"}},
		{"description includes Date", []string{"d no date"}},
		{"Not Done\nPath includes home", []string{"c overdue", "d no date"}},
		{"is recurring", nil},
		{"is not recurring", []string{"a low", "b done", "c overdue", "d no date", "e tomorrow"}},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			q, err := query.Parse(tt.source, today)
			require.NoError(t, err)
			got := descriptions(q.Apply(sample(t)))
			if tt.want == nil {
				require.Empty(t, got)
				return
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFilters_HeadingAndPriorityWaiting(t *testing.T) {
	header := "Errands"
	waiting := parse(t, "- [ ] ask Bob >>", "a.md")
	waiting.Header = &header
	plain := parse(t, "- [ ] plain", "a.md")

	q, err := query.Parse("heading includes errand", today)
	require.NoError(t, err)
	require.Equal(t, []string{"ask Bob"}, descriptions(q.Apply([]task.Record{waiting, plain})))

	q, err = query.Parse("priority is waiting", today)
	require.NoError(t, err)
	require.Equal(t, []string{"ask Bob"}, descriptions(q.Apply([]task.Record{waiting, plain})))
}

func TestFilters_TextKeepsNeedleSpacing(t *testing.T) {
	records := []task.Record{
		parse(t, "- [ ] call a  b", "a.md"),
		parse(t, "- [ ] call a b", "a.md"),
	}

	q, err := query.Parse("Description  Includes A  B", today)
	require.NoError(t, err)
	require.Equal(t, []string{"call a  b"}, descriptions(q.Apply(records)))

	q, err = query.Parse("description does not include a  b", today)
	require.NoError(t, err)
	require.Equal(t, []string{"call a b"}, descriptions(q.Apply(records)))
}

func TestFilterConjunction_OrderIndependent(t *testing.T) {
	f1, err := query.Parse("not done", today)
	require.NoError(t, err)
	f2, err := query.Parse("path includes work", today)
	require.NoError(t, err)

	records := sample(t)
	both := query.ApplyFilters(append(append([]query.Filter{}, f1.Filters...), f2.Filters...), records)
	chained := query.ApplyFilters(f1.Filters, query.ApplyFilters(f2.Filters, records))
	require.Equal(t, both, chained)
	require.Equal(t, []string{"a low", "e tomorrow"}, descriptions(both))
}

func TestSort(t *testing.T) {
	tests := []struct {
		source string
		want   []string
	}{
		{"sort by due", []string{"b done", "c overdue", "e tomorrow", "a low", "d no date"}},
		{"sort by due reverse", []string{"d no date", "a low", "e tomorrow", "b done", "c overdue"}},
		{"sort by priority", []string{"b done", "c overdue", "e tomorrow", "d no date", "a low"}},
		{"sort by status\nsort by path descending", []string{"e tomorrow", "a low", "d no date", "c overdue", "b done"}},
		{"sort by description descending", []string{"e tomorrow", "d no date", "c overdue", "b done", "a low"}},
		{"sort by urgency", []string{"c overdue", "e tomorrow", "a low", "d no date", "b done"}},
		{"sort by urgency descending", []string{"c overdue", "e tomorrow", "a low", "d no date", "b done"}},
		{"sort by urgency ascending", []string{"b done", "d no date", "a low", "e tomorrow", "c overdue"}},
		{"sort by urgency reverse", []string{"b done", "d no date", "a low", "e tomorrow", "c overdue"}},
		{"sort by due ascending", []string{"b done", "c overdue", "e tomorrow", "a low", "d no date"}},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			q, err := query.Parse(tt.source, today)
			require.NoError(t, err)
			require.Equal(t, tt.want, descriptions(q.Apply(sample(t))))
		})
	}
}

func TestSort_Stable(t *testing.T) {
	records := []task.Record{
		parse(t, "- [ ] first !!", "x.md"),
		parse(t, "- [ ] second", "x.md"),
		parse(t, "- [ ] third !!", "x.md"),
		parse(t, "- [ ] fourth", "x.md"),
	}
	q, err := query.Parse("sort by priority", today)
	require.NoError(t, err)
	require.Equal(t, []string{"first", "third", "second", "fourth"}, descriptions(q.Apply(records)))
}

func TestParse_Layout(t *testing.T) {
	q, err := query.Parse("hide task count\nhide backlinks\nhide priority\nhide done date\nhide due date\nhide edit button\nshort mode", today)
	require.NoError(t, err)
	require.Equal(t, task.LayoutOptions{
		HideTaskCount:  true,
		HideBacklinks:  true,
		HidePriority:   true,
		HideDoneDate:   true,
		HideDueDate:    true,
		HideEditButton: true,
		ShortMode:      true,
	}, q.Layout)

	q, err = query.Parse("hide priority\nshow priority\nlimit to 3 tasks", today)
	require.NoError(t, err)
	require.False(t, q.Layout.HidePriority)
	require.Equal(t, 3, q.Limit)
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	records := sample(t)
	before := descriptions(records)

	q, err := query.Parse("sort by description descending\nlimit 1", today)
	require.NoError(t, err)
	require.Len(t, q.Apply(records), 1)
	require.Equal(t, before, descriptions(records))
}
