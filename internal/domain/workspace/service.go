package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/tasklens/internal/domain/activity"
	"github.com/rpggio/tasklens/internal/domain/collection"
	"github.com/rpggio/tasklens/internal/domain/query"
	"github.com/rpggio/tasklens/internal/domain/task"
	"github.com/rpggio/tasklens/internal/render"
	"github.com/rpggio/tasklens/internal/vault"
)

// Service answers queries against the task collection and applies edits
// back to the vault.
type Service struct {
	store     *collection.Store
	vault     Vault
	settings  task.Settings
	evaluator task.RecurrenceEvaluator
	index     TaskIndex
	activity  ActivityLogger
	committer Committer
	clock     func() time.Time
	logger    *slog.Logger
}

// NewService creates a workspace service. When an index is configured it is
// rebuilt from every snapshot the store publishes.
func NewService(store *collection.Store, v Vault, opts Options) *Service {
	s := &Service{
		store:     store,
		vault:     v,
		settings:  opts.Settings,
		evaluator: opts.Evaluator,
		index:     opts.Index,
		activity:  opts.Activity,
		committer: opts.Committer,
		clock:     opts.Clock,
		logger:    opts.Logger,
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.index != nil {
		store.Subscribe(s.reindex)
	}
	return s
}

// Settings returns the task settings the service parses and renders with.
func (s *Service) Settings() task.Settings {
	return s.settings
}

// Snapshot returns the current task collection.
func (s *Service) Snapshot() collection.Snapshot {
	return s.store.Snapshot()
}

// Reload rereads the vault into the store.
func (s *Service) Reload(ctx context.Context) (collection.Snapshot, error) {
	records, err := s.vault.Load(ctx)
	if err != nil {
		return collection.Snapshot{}, fmt.Errorf("loading vault: %w", err)
	}
	snap := s.store.Replace(records)
	s.logger.Info("vault loaded", "tasks", len(records), "version", snap.Version)
	return snap, nil
}

// Refresh reloads the vault on behalf of tenantID and logs it.
func (s *Service) Refresh(ctx context.Context, tenantID string) (collection.Snapshot, error) {
	snap, err := s.Reload(ctx)
	if err != nil {
		return collection.Snapshot{}, err
	}
	s.logActivity(ctx, tenantID, &activity.ActivityEntry{
		ActivityType: activity.TypeVaultRefreshed,
		Summary:      fmt.Sprintf("loaded %s", render.Count(len(snap.Records))),
	})
	return snap, nil
}

// Query evaluates a tasks block. Parse failures are reported in the result
// rather than as an error.
func (s *Service) Query(source string) QueryResult {
	res := QueryResult{Source: source}
	q, err := query.Parse(source, task.DateOf(s.clock()))
	if err != nil {
		res.Error = err.Error()
		res.Rendered = render.QueryError(err)
		return res
	}
	res.Layout = q.Layout

	snap := s.store.Snapshot()
	if snap.State != collection.StateWarm {
		res.Loading = true
		res.Rendered = render.Loading
		return res
	}
	res.Tasks = q.Apply(snap.Records)
	res.Rendered = render.Result(res.Tasks, q.Layout, s.settings)
	return res
}

// RenderNote evaluates every tasks block of a note.
func (s *Service) RenderNote(ctx context.Context, path string) (*NoteResult, error) {
	content, err := s.vault.ReadNote(ctx, path)
	if err != nil {
		return nil, err
	}
	blocks := vault.QueryBlocks(content)
	res := &NoteResult{Path: path, Queries: make([]QueryResult, 0, len(blocks))}
	for _, block := range blocks {
		res.Queries = append(res.Queries, s.Query(block))
	}
	return res, nil
}

// ListTasks returns tasks in collection order, optionally for one note.
func (s *Service) ListTasks(opts ListOptions) []task.Record {
	records := s.store.Snapshot().Records
	out := make([]task.Record, 0, len(records))
	for _, r := range records {
		if opts.Path != "" && r.Origin.Path != opts.Path {
			continue
		}
		out = append(out, r)
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out
}

// Search runs a full-text search over task lines.
func (s *Service) Search(ctx context.Context, text string, limit int) ([]SearchHit, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: search text is required", ErrInvalidInput)
	}
	if s.index == nil {
		return nil, ErrSearchUnavailable
	}
	hits, err := s.index.Search(ctx, text, limit)
	if err != nil {
		return nil, fmt.Errorf("searching tasks: %w", err)
	}
	for i := range hits {
		if r, ok := s.store.Find(hits[i].Origin); ok {
			hits[i].Task = &r
		}
	}
	return hits, nil
}

// Toggle flips the task at origin and writes the result to its note.
// Completing a recurring task also inserts its next occurrence.
func (s *Service) Toggle(ctx context.Context, tenantID string, origin task.OriginKey) (*EditResult, error) {
	rec, ok := s.store.Find(origin)
	if !ok {
		return nil, notFound(origin)
	}
	replaced := rec.Toggle(s.clock(), s.evaluator)

	res, err := s.write(ctx, rec, replaced)
	if err != nil {
		return nil, err
	}

	typ, verb := activity.TypeTaskCompleted, "complete"
	switch {
	case rec.Status == task.StatusDone:
		typ, verb = activity.TypeTaskReopened, "reopen"
	case len(replaced) > 1:
		typ = activity.TypeTaskRecurred
	}
	s.afterEdit(ctx, tenantID, typ, fmt.Sprintf("%s: %s", verb, rec.Description), res)
	return res, nil
}

// ShiftPriority moves the priority of the task at origin.
func (s *Service) ShiftPriority(ctx context.Context, tenantID string, origin task.OriginKey, dir Direction) (*EditResult, error) {
	rec, ok := s.store.Find(origin)
	if !ok {
		return nil, notFound(origin)
	}

	var p task.Priority
	switch dir {
	case DirectionUp:
		p = rec.Priority.Increase()
	case DirectionDown:
		p = rec.Priority.Decrease()
	case DirectionWaiting:
		p = rec.Priority.ToggleWaiting()
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
	}

	updated := rec.WithPriority(p)
	if p == rec.Priority {
		line := rec.ToFileLine()
		return &EditResult{Origin: origin, Before: line, After: []string{line}, Records: []task.Record{rec}}, nil
	}

	res, err := s.write(ctx, rec, []task.Record{updated})
	if err != nil {
		return nil, err
	}
	s.afterEdit(ctx, tenantID, activity.TypePriorityChanged,
		fmt.Sprintf("priority %s -> %s: %s", rec.Priority, p, rec.Description), res)
	return res, nil
}

// ToggleLine toggles a raw checklist line without touching any note.
func (s *Service) ToggleLine(line string) (string, error) {
	out, ok := task.ToggleLine(line, "\n", s.settings, s.clock(), s.evaluator)
	if !ok {
		return "", fmt.Errorf("%w: not a task line", ErrInvalidInput)
	}
	return out, nil
}

func (s *Service) write(ctx context.Context, rec task.Record, replaced []task.Record) (*EditResult, error) {
	if err := s.vault.Replace(ctx, rec, replaced); err != nil {
		// the snapshot is likely stale; refresh it so callers get current origins
		if _, rerr := s.Reload(ctx); rerr != nil {
			s.logger.Warn("reload after failed write", "error", rerr)
		}
		return nil, fmt.Errorf("writing task: %w", err)
	}
	after := make([]string, 0, len(replaced))
	for _, r := range replaced {
		after = append(after, r.ToFileLine())
	}
	if _, err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return &EditResult{Origin: rec.Origin, Before: rec.ToFileLine(), After: after, Records: replaced}, nil
}

func (s *Service) afterEdit(ctx context.Context, tenantID string, typ activity.ActivityType, summary string, res *EditResult) {
	details, err := json.Marshal(struct {
		Origin task.OriginKey `json:"origin"`
		Before string         `json:"before"`
		After  []string       `json:"after"`
	}{res.Origin, res.Before, res.After})
	if err != nil {
		s.logger.Warn("encoding activity details failed", "error", err)
	}
	s.logActivity(ctx, tenantID, &activity.ActivityEntry{
		Path:         res.Origin.Path,
		ActivityType: typ,
		Summary:      summary,
		Details:      string(details),
	})

	if s.committer == nil {
		return
	}
	if err := s.committer.Commit(ctx, "tasklens: "+summary, res.Origin.Path); err != nil {
		s.logger.Warn("committing note failed", "path", res.Origin.Path, "error", err)
	}
}

func (s *Service) logActivity(ctx context.Context, tenantID string, entry *activity.ActivityEntry) {
	if s.activity == nil {
		return
	}
	if err := s.activity.LogActivity(ctx, tenantID, entry); err != nil {
		s.logger.Warn("activity log failed", "type", entry.ActivityType, "error", err)
	}
}

func (s *Service) reindex(snap collection.Snapshot) {
	if err := s.index.ReplaceAll(context.Background(), snap.Records); err != nil {
		s.logger.Warn("task index update failed", "version", snap.Version, "error", err)
	}
}

func notFound(origin task.OriginKey) error {
	return fmt.Errorf("%w: %s section %d index %d", ErrTaskNotFound, origin.Path, origin.SectionStart, origin.SectionIndex)
}
