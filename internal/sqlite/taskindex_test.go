package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/tasklens/internal/domain/task"
	"github.com/stretchr/testify/require"
)

func indexRecords(t *testing.T) []task.Record {
	t.Helper()
	heading := "Groceries"
	lines := []struct {
		line   string
		origin task.OriginKey
		header *string
	}{
		{"- [ ] buy oat milk 📅 2024-03-20", task.OriginKey{Path: "home/errands.md", SectionStart: 2, SectionIndex: 0}, &heading},
		{"- [x] buy bread ✅ 2024-03-10", task.OriginKey{Path: "home/errands.md", SectionStart: 2, SectionIndex: 1}, &heading},
		{"- [ ] review milestone plan !!", task.OriginKey{Path: "work/plan.md", SectionStart: 0, SectionIndex: 0}, nil},
	}
	records := make([]task.Record, 0, len(lines))
	for _, l := range lines {
		r, ok := task.ParseLine(l.line, l.origin, l.header, task.Settings{})
		require.True(t, ok)
		records = append(records, r)
	}
	return records
}

func TestTaskIndexRepository_Search(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewTaskIndexRepository(db)

	require.NoError(t, repo.ReplaceAll(ctx, indexRecords(t)))

	hits, err := repo.Search(ctx, "buy", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	hits, err = repo.Search(ctx, "oat mi", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, task.OriginKey{Path: "home/errands.md", SectionStart: 2, SectionIndex: 0}, hits[0].Origin)
	require.Equal(t, "- [ ] buy oat milk 📅 2024-03-20", hits[0].Line)
	require.Contains(t, hits[0].Snippet, "[oat]")

	// headings and paths are searchable too
	hits, err = repo.Search(ctx, "groceries", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	hits, err = repo.Search(ctx, "work", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
}

func TestTaskIndexRepository_ReplaceAllDropsOldRows(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewTaskIndexRepository(db)

	records := indexRecords(t)
	require.NoError(t, repo.ReplaceAll(ctx, records))
	require.NoError(t, repo.ReplaceAll(ctx, records[2:]))

	hits, err := repo.Search(ctx, "buy", 10)
	require.NoError(t, err)
	require.Empty(t, hits)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM task_index`).Scan(&count))
	require.Equal(t, 1, count)
}

func TestTaskIndexRepository_OperatorsAreLiteral(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewTaskIndexRepository(db)
	require.NoError(t, repo.ReplaceAll(ctx, indexRecords(t)))

	hits, err := repo.Search(ctx, `plan" OR "buy`, 10)
	require.NoError(t, err)
	require.Empty(t, hits)

	hits, err = repo.Search(ctx, "   ", 10)
	require.NoError(t, err)
	require.Empty(t, hits)
}

func TestFTSQuery(t *testing.T) {
	require.Equal(t, `"buy"* "milk"*`, ftsQuery(" buy  milk "))
	require.Equal(t, `"a""b"*`, ftsQuery(`a"b`))
	require.Equal(t, "", ftsQuery(""))
}
