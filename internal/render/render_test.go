package render

import (
	"errors"
	"testing"

	"github.com/rpggio/tasklens/internal/domain/task"
	"github.com/stretchr/testify/require"
)

func record(t *testing.T, line, path string, header *string) task.Record {
	t.Helper()
	r, ok := task.ParseLine(line, task.OriginKey{Path: path}, header, task.Settings{})
	require.True(t, ok)
	return r
}

func TestLine(t *testing.T) {
	heading := "Errands"
	r := record(t, "- [ ] buy milk #task !! 📅 2024-03-20", "home/inbox.md", &heading)

	tests := []struct {
		name   string
		layout task.LayoutOptions
		s      task.Settings
		want   string
	}{
		{"default", task.LayoutOptions{}, task.Settings{}, "- [ ] buy milk #task !! 📅 2024-03-20 (inbox > Errands) ✎ home/inbox.md:0:0"},
		{"short mode", task.LayoutOptions{ShortMode: true}, task.Settings{}, "- [ ] buy milk #task !! 📅 🔗 ✎ home/inbox.md:0:0"},
		{"hidden parts", task.LayoutOptions{HideBacklinks: true, HidePriority: true, HideDueDate: true, HideEditButton: true}, task.Settings{}, "- [ ] buy milk #task"},
		{"edit locator only", task.LayoutOptions{HideBacklinks: true, HidePriority: true, HideDueDate: true}, task.Settings{}, "- [ ] buy milk #task ✎ home/inbox.md:0:0"},
		{"global filter removed", task.LayoutOptions{HideBacklinks: true}, task.Settings{GlobalFilter: "#task", RemoveGlobalFilter: true}, "- [ ] buy milk !! 📅 2024-03-20 ✎ home/inbox.md:0:0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Line(r, tt.layout, tt.s))
		})
	}
}

func TestLine_HeaderMatchingFilename(t *testing.T) {
	heading := "inbox"
	r := record(t, "- [x] done thing", "inbox.md", &heading)
	require.Equal(t, "- [x] done thing (inbox) ✎ inbox.md:0:0", Line(r, task.LayoutOptions{}, task.Settings{}))
}

func TestResult(t *testing.T) {
	a := record(t, "- [ ] one", "a.md", nil)
	b := record(t, "- [ ] two", "b.md", nil)
	noEdit := task.LayoutOptions{HideEditButton: true}

	require.Equal(t, "- [ ] one (a)\n- [ ] two (b)\n2 tasks", Result([]task.Record{a, b}, noEdit, task.Settings{}))
	require.Equal(t, "- [ ] one (a)\n1 task", Result([]task.Record{a}, noEdit, task.Settings{}))
	require.Equal(t, "0 tasks", Result(nil, task.LayoutOptions{}, task.Settings{}))
	require.Equal(t, "- [ ] one (a)", Result([]task.Record{a}, task.LayoutOptions{HideTaskCount: true, HideEditButton: true}, task.Settings{}))
	require.Equal(t, "- [ ] one (a) ✎ a.md:0:0\n1 task", Result([]task.Record{a}, task.LayoutOptions{}, task.Settings{}))
}

func TestLocator(t *testing.T) {
	require.Equal(t, "notes/inbox.md:12:3", Locator(task.OriginKey{Path: "notes/inbox.md", SectionStart: 12, SectionIndex: 3}))
}

func TestQueryError(t *testing.T) {
	require.Equal(t, "Tasks query: do not understand query: frobnicate", QueryError(errors.New("do not understand query: frobnicate")))
}
