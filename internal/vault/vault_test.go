package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rpggio/tasklens/internal/domain/task"
	"github.com/stretchr/testify/require"
)

const projectNote = `# Project

Intro paragraph.

- [ ] write outline 📅 2024-03-20
- plain bullet
- [x] pick title ✅ 2024-03-01

## Launch

- [ ] announce !!
  - [ ] draft post
- [ ] ship it 🔁 every week 📅 2024-03-18

` + "```" + `
- [ ] not a task, inside a fence
` + "```" + `

- [ ] after fence
`

func writeNote(t *testing.T, root, rel, content string) string {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	return full
}

func TestParseDocument_SectionsAndHeaders(t *testing.T) {
	records := ParseDocument("notes/project.md", projectNote, task.Settings{})
	require.Len(t, records, 6)

	require.Equal(t, "write outline", records[0].Description)
	require.Equal(t, task.OriginKey{Path: "notes/project.md", SectionStart: 4, SectionIndex: 0}, records[0].Origin)
	require.Equal(t, "Project", *records[0].Header)

	require.Equal(t, task.StatusDone, records[1].Status)
	require.Equal(t, task.OriginKey{Path: "notes/project.md", SectionStart: 4, SectionIndex: 1}, records[1].Origin)

	require.Equal(t, "Launch", *records[2].Header)
	require.Equal(t, 10, records[2].Origin.SectionStart)
	require.Equal(t, "draft post", records[3].Description)
	require.Equal(t, "  ", records[3].Indentation)
	require.Equal(t, 1, records[3].Origin.SectionIndex)
	require.Equal(t, "every week", records[4].Recurrence)
	require.Equal(t, 2, records[4].Origin.SectionIndex)

	require.Equal(t, "after fence", records[5].Description)
	require.Equal(t, 0, records[5].Origin.SectionIndex)
}

func TestParseDocument_GlobalFilter(t *testing.T) {
	content := "- [ ] #task buy milk\n- [ ] not tracked\n- [ ] call #task mom\n"
	records := ParseDocument("a.md", content, task.Settings{GlobalFilter: "#task"})
	require.Len(t, records, 2)
	require.Equal(t, 0, records[0].Origin.SectionIndex)
	require.Equal(t, 1, records[1].Origin.SectionIndex)
}

func TestQueryBlocks(t *testing.T) {
	content := "# Today\n\n```tasks\nnot done\r\ndue before tomorrow\n```\n\ntext\n\n```tasks\nsort by urgency\n```\n```go\nfmt.Println()\n```\n"
	blocks := QueryBlocks(content)
	require.Equal(t, []string{"not done\ndue before tomorrow\n", "sort by urgency\n"}, blocks)
}

func TestScan_SkipsHiddenAndNonNotes(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "inbox.md", "- [ ] one\n")
	writeNote(t, root, "work/plan.md", "- [ ] two\n- [x] three\n")
	writeNote(t, root, ".obsidian/cache.md", "- [ ] hidden\n")
	writeNote(t, root, "readme.txt", "- [ ] not a note\n")

	records, err := Scan(context.Background(), root, task.Settings{})
	require.NoError(t, err)
	require.Len(t, records, 3)

	paths := map[string]int{}
	for _, r := range records {
		paths[r.Origin.Path]++
	}
	require.Equal(t, map[string]int{"inbox.md": 1, "work/plan.md": 2}, paths)
}

func TestScan_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "inbox.md", "- [ ] one\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Scan(ctx, root, task.Settings{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestVault_ReplaceRecurring(t *testing.T) {
	root := t.TempDir()
	full := writeNote(t, root, "project.md", projectNote)
	v := New(root, task.Settings{}, nil)

	records, err := v.Load(context.Background())
	require.NoError(t, err)
	target := records[4]

	now := time.Date(2024, 3, 18, 9, 0, 0, 0, time.UTC)
	next := target
	next.Due = ptr(time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC))
	done := target
	done.Status = task.StatusDone
	done.OriginalStatus = "x"
	done.Done = ptr(task.DateOf(now))

	require.NoError(t, v.Replace(context.Background(), target, []task.Record{next, done}))

	data, err := os.ReadFile(full)
	require.NoError(t, err)
	require.Contains(t, string(data), "  - [ ] draft post\n- [ ] ship it 🔁 every week 📅 2024-03-25\n- [x] ship it 🔁 every week 📅 2024-03-18 ✅ 2024-03-18\n\n")

	reloaded, err := v.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, reloaded, 7)
}

func TestVault_ReplacePreservesCRLF(t *testing.T) {
	root := t.TempDir()
	full := writeNote(t, root, "crlf.md", "# List\r\n- [ ] first\r\n- [ ] second\r\n")
	v := New(root, task.Settings{}, nil)

	records, err := v.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	toggled := records[1].Toggle(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, v.Replace(context.Background(), records[1], toggled))

	data, err := os.ReadFile(full)
	require.NoError(t, err)
	require.Equal(t, "# List\r\n- [ ] first\r\n- [x] second ✅ 2024-05-01\r\n", string(data))
}

func TestVault_ReplaceErrors(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "a.md", "- [ ] only\n")
	v := New(root, task.Settings{}, nil)
	ctx := context.Background()

	err := v.Replace(ctx, task.Record{Origin: task.OriginKey{Path: "a.md", SectionStart: 0, SectionIndex: 3}}, nil)
	require.ErrorIs(t, err, ErrTaskMoved)

	err = v.Replace(ctx, task.Record{Origin: task.OriginKey{Path: "../escape.md"}}, nil)
	require.ErrorIs(t, err, ErrOutsideVault)

	_, err = v.ReadNote(ctx, "a.txt")
	require.ErrorIs(t, err, ErrNotNote)

	_, err = v.ReadNote(ctx, "missing.md")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestVault_ReplaceRejectsChangedLine(t *testing.T) {
	root := t.TempDir()
	full := writeNote(t, root, "inbox.md", "# Inbox\n\n- [ ] water plants\n- [ ] file taxes !!\n")
	v := New(root, task.Settings{}, nil)
	ctx := context.Background()

	records, err := v.Load(ctx)
	require.NoError(t, err)
	taxes := records[1]
	require.Equal(t, "file taxes", taxes.Description)

	// a new item at the head of the list shifts every index by one
	edited := "# Inbox\n\n- [ ] new urgent thing\n- [ ] water plants\n- [ ] file taxes !!\n"
	require.NoError(t, os.WriteFile(full, []byte(edited), 0o644))

	toggled := taxes.Toggle(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), nil)
	err = v.Replace(ctx, taxes, toggled)
	require.ErrorIs(t, err, ErrTaskMoved)

	data, err := os.ReadFile(full)
	require.NoError(t, err)
	require.Equal(t, edited, string(data))

	err = v.Replace(ctx, records[0], nil)
	require.ErrorIs(t, err, ErrTaskMoved)
}

func TestWatch_DebouncesNoteChanges(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "inbox.md", "- [ ] one\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := Watch(ctx, root, 50*time.Millisecond, nil)
	require.NoError(t, err)

	writeNote(t, root, "inbox.md", "- [ ] one\n- [ ] two\n")
	writeNote(t, root, "inbox.md", "- [ ] one\n- [ ] two\n- [ ] three\n")
	writeNote(t, root, ".hidden.md", "- [ ] ignored\n")

	select {
	case ev := <-ch:
		require.Equal(t, []string{"inbox.md"}, ev.Paths)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func ptr(t time.Time) *time.Time {
	return &t
}
