package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/tasklens/internal/domain/task"
	"github.com/rpggio/tasklens/internal/domain/workspace"
)

const defaultSearchLimit = 20

// TaskIndexRepository implements repository.TaskIndexRepository for SQLite
type TaskIndexRepository struct {
	db *DB
}

// NewTaskIndexRepository creates a new TaskIndexRepository
func NewTaskIndexRepository(db *DB) *TaskIndexRepository {
	return &TaskIndexRepository{db: db}
}

// ReplaceAll swaps the indexed tasks for records in one transaction
func (r *TaskIndexRepository) ReplaceAll(ctx context.Context, records []task.Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin task index update: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_index`); err != nil {
		return fmt.Errorf("failed to clear task index: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO task_index (
			path, section_start, section_index, status, description,
			header, priority, due, done, recurrence, line
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare task insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		header := ""
		if rec.Header != nil {
			header = *rec.Header
		}
		if _, err := stmt.ExecContext(ctx,
			rec.Origin.Path,
			rec.Origin.SectionStart,
			rec.Origin.SectionIndex,
			string(rec.Status),
			rec.Description,
			header,
			rec.Priority.String(),
			nullDate(rec.Due),
			nullDate(rec.Done),
			rec.Recurrence,
			rec.ToFileLine(),
		); err != nil {
			return fmt.Errorf("failed to index task %s: %w", rec.Origin.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit task index: %w", err)
	}
	return nil
}

// Search performs a full-text search over task descriptions, headings and paths
func (r *TaskIndexRepository) Search(ctx context.Context, text string, limit int) ([]workspace.SearchHit, error) {
	match := ftsQuery(text)
	if match == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			t.path, t.section_start, t.section_index, t.line,
			snippet(task_fts, 0, '[', ']', '…', 8) AS snippet,
			bm25(task_fts) AS rank
		FROM task_fts
		JOIN task_index t ON t.rowid = task_fts.rowid
		WHERE task_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}
	defer rows.Close()

	var hits []workspace.SearchHit
	for rows.Next() {
		var hit workspace.SearchHit
		if err := rows.Scan(
			&hit.Origin.Path,
			&hit.Origin.SectionStart,
			&hit.Origin.SectionIndex,
			&hit.Line,
			&hit.Snippet,
			&hit.Rank,
		); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		hits = append(hits, hit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search results: %w", err)
	}

	return hits, nil
}

// ftsQuery turns free text into prefix terms that must all match. Quoting
// keeps FTS5 operators in user input from being interpreted.
func ftsQuery(text string) string {
	fields := strings.Fields(text)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, `""`)
		terms = append(terms, `"`+f+`"*`)
	}
	return strings.Join(terms, " ")
}

func nullDate(d *time.Time) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: task.FormatDate(*d), Valid: true}
}
