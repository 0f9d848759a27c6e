package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/tasklens/internal/domain/activity"
)

// ActivityRepository stores task edits in activity_log.
type ActivityRepository struct {
	db *DB
}

func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

const insertActivity = `INSERT INTO activity_log (tenant_id, path, activity_type, summary, details, created_at)
VALUES (?, ?, ?, ?, ?, ?)`

// Log inserts entry and fills in its ID, tenant and timestamp.
func (r *ActivityRepository) Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error {
	at := entry.CreatedAt
	if at.IsZero() {
		at = time.Now()
	}
	at = at.UTC()

	res, err := r.db.ExecContext(ctx, insertActivity,
		tenantID, entry.Path, entry.ActivityType, entry.Summary, entry.Details, at)
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		entry.ID = id
	}
	entry.TenantID = tenantID
	entry.CreatedAt = at
	return nil
}

// activityFilter accumulates WHERE clauses for List.
type activityFilter struct {
	clauses []string
	args    []any
}

func (f *activityFilter) add(clause string, arg any) {
	f.clauses = append(f.clauses, clause)
	f.args = append(f.args, arg)
}

// List returns entries of tenantID matching opts, newest first.
func (r *ActivityRepository) List(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	f := &activityFilter{}
	f.add("tenant_id = ?", tenantID)
	if opts.Path != "" {
		f.add("path = ?", opts.Path)
	}
	if opts.ActivityType != nil {
		f.add("activity_type = ?", *opts.ActivityType)
	}
	if !opts.Since.IsZero() {
		f.add("created_at >= ?", opts.Since.UTC())
	}

	var q strings.Builder
	q.WriteString("SELECT id, tenant_id, path, activity_type, summary, details, created_at FROM activity_log WHERE ")
	q.WriteString(strings.Join(f.clauses, " AND "))
	q.WriteString(" ORDER BY created_at DESC, id DESC")

	// OFFSET requires a LIMIT clause; -1 means unbounded.
	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}
	q.WriteString(" LIMIT ? OFFSET ?")
	args := append(f.args, limit, max(opts.Offset, 0))

	rows, err := r.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []activity.ActivityEntry
	for rows.Next() {
		var e activity.ActivityEntry
		if err := rows.Scan(&e.ID, &e.TenantID, &e.Path, &e.ActivityType, &e.Summary, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}
	return entries, nil
}
