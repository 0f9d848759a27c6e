package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/tasklens/internal/commands"
)

const inbox = `# Inbox

- [ ] water plants 🔁 every week 📅 2024-03-14
- [ ] file taxes !! 📅 2024-04-15
- [x] book flights ✅ 2024-03-01

` + "```tasks\nnot done\nsort by priority\n```\n"

func setup(t *testing.T) string {
	t.Helper()
	color.NoColor = true

	dir := t.TempDir()
	vaultDir := filepath.Join(dir, "vault")
	require.NoError(t, os.MkdirAll(vaultDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(vaultDir, "inbox.md"), []byte(inbox), 0o644))

	t.Setenv("TASKLENS_CONFIG_PATH", "")
	t.Setenv("TASKLENS_DB_PATH", filepath.Join(dir, "tasklens.db"))
	t.Setenv("TASKLENS_VAULT_PATH", vaultDir)
	t.Setenv("TASKLENS_GIT_AUTO_COMMIT", "false")
	return vaultDir
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := commands.New()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return out.String(), err
}

type listedTask struct {
	Description string `json:"description"`
	Origin      struct {
		Path         string `json:"path"`
		SectionStart int    `json:"section_start"`
		SectionIndex int    `json:"section_index"`
	} `json:"origin"`
}

func TestList(t *testing.T) {
	setup(t)

	out, err := run(t, "", "list", "--json")
	require.NoError(t, err)
	var tasks []listedTask
	require.NoError(t, json.Unmarshal([]byte(out), &tasks))
	require.Len(t, tasks, 3)
	require.Equal(t, "water plants", tasks[0].Description)
	require.Equal(t, "inbox.md", tasks[0].Origin.Path)

	out, err = run(t, "", "list", "--path", "inbox.md")
	require.NoError(t, err)
	require.Contains(t, out, "inbox - 3 tasks")
	require.Contains(t, out, "file taxes")
	require.Contains(t, out, "inbox.md:2:1")
}

func TestQueryFromStdin(t *testing.T) {
	setup(t)

	out, err := run(t, "not done\nsort by priority\n", "query")
	require.NoError(t, err)
	require.Contains(t, out, "file taxes")
	require.Contains(t, out, "2 tasks")
	require.NotContains(t, out, "book flights")
	require.Contains(t, out, "inbox.md:2:1")

	out, err = run(t, "not done\nhide edit button\n", "query")
	require.NoError(t, err)
	require.Contains(t, out, "file taxes")
	require.NotContains(t, out, "inbox.md:2:1")
}

func TestQueryError(t *testing.T) {
	setup(t)

	out, err := run(t, "sort by colour\n", "query")
	require.NoError(t, err)
	require.Contains(t, out, "Tasks query:")
}

func TestQueryNote(t *testing.T) {
	setup(t)

	out, err := run(t, "", "query", "--note", "inbox.md", "--json")
	require.NoError(t, err)
	var note struct {
		Queries []struct {
			Tasks []listedTask `json:"tasks"`
		} `json:"queries"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &note))
	require.Len(t, note.Queries, 1)
	require.Len(t, note.Queries[0].Tasks, 2)

	_, err = run(t, "", "query", "--note", "missing.md")
	require.Error(t, err)
}

func TestToggle(t *testing.T) {
	vaultDir := setup(t)

	out, err := run(t, "", "toggle", "--path", "inbox.md", "--section-start", "2", "--index", "1")
	require.NoError(t, err)
	require.Contains(t, out, "- - [ ] file taxes !! 📅 2024-04-15")
	require.Contains(t, out, "+ - [x] file taxes !! 📅 2024-04-15 ✅ ")

	data, err := os.ReadFile(filepath.Join(vaultDir, "inbox.md"))
	require.NoError(t, err)
	require.Contains(t, string(data), "- [x] file taxes !! 📅 2024-04-15 ✅ ")

	out, err = run(t, "", "activity", "--json")
	require.NoError(t, err)
	var entries []struct {
		Summary string `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.NotEmpty(t, entries)
	require.Equal(t, "complete: file taxes", entries[0].Summary)
}

func TestToggleNotFound(t *testing.T) {
	setup(t)

	out, err := run(t, "", "toggle", "--path", "inbox.md", "--section-start", "40", "--json")
	require.NoError(t, err)
	require.Contains(t, out, `"error"`)

	_, err = run(t, "", "toggle", "--section-start", "2")
	require.Error(t, err)
}

func TestPriority(t *testing.T) {
	vaultDir := setup(t)

	_, err := run(t, "", "priority", "down", "--path", "inbox.md", "--section-start", "2", "--index", "1")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(vaultDir, "inbox.md"))
	require.NoError(t, err)
	require.Contains(t, string(data), "- [ ] file taxes !? 📅 2024-04-15")

	_, err = run(t, "", "priority", "sideways", "--path", "inbox.md", "--section-start", "2")
	require.Error(t, err)

	_, err = run(t, "", "priority", "--path", "inbox.md")
	require.Error(t, err)
}

func TestToggleLine(t *testing.T) {
	setup(t)

	out, err := run(t, "", "toggle-line", "--", "- [x] stretch ✅ 2024-03-01")
	require.NoError(t, err)
	require.Equal(t, "- [ ] stretch\n", out)

	out, err = run(t, "- [x] stretch ✅ 2024-03-01\n", "toggle-line")
	require.NoError(t, err)
	require.Equal(t, "- [ ] stretch\n", out)

	_, err = run(t, "", "toggle-line")
	require.Error(t, err)

	_, err = run(t, "", "toggle-line", "--", "not a task")
	require.Error(t, err)
}

func TestSearch(t *testing.T) {
	setup(t)

	out, err := run(t, "", "search", "taxes", "--json")
	require.NoError(t, err)
	var hits []struct {
		Line string `json:"line"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &hits))
	require.Len(t, hits, 1)
	require.Contains(t, hits[0].Line, "file taxes")
}
