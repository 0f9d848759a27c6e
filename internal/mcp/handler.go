package mcp

import (
	"context"
	"encoding/json"

	"github.com/rpggio/tasklens/internal/domain/activity"
	"github.com/rpggio/tasklens/internal/domain/collection"
	"github.com/rpggio/tasklens/internal/domain/task"
	"github.com/rpggio/tasklens/internal/domain/workspace"
)

// TaskService defines task operations needed by MCP.
type TaskService interface {
	Query(source string) workspace.QueryResult
	ListTasks(opts workspace.ListOptions) []task.Record
	Search(ctx context.Context, text string, limit int) ([]workspace.SearchHit, error)
	Toggle(ctx context.Context, tenantID string, origin task.OriginKey) (*workspace.EditResult, error)
	ShiftPriority(ctx context.Context, tenantID string, origin task.OriginKey, dir workspace.Direction) (*workspace.EditResult, error)
	ToggleLine(line string) (string, error)
	RenderNote(ctx context.Context, path string) (*workspace.NoteResult, error)
	Refresh(ctx context.Context, tenantID string) (collection.Snapshot, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Handler dispatches MCP commands.
type Handler struct {
	tasks    TaskService
	activity ActivityService
}

// NewHandler creates a new MCP handler.
func NewHandler(tasks TaskService, activitySvc ActivityService) *Handler {
	return &Handler{
		tasks:    tasks,
		activity: activitySvc,
	}
}

// Handle dispatches MCP requests to domain services.
func (h *Handler) Handle(ctx context.Context, tenantID, sessionID, method string, params json.RawMessage) (any, error) {
	switch method {
	case "query_tasks":
		var req QueryTasksParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.tasks.Query(req.Query), nil
	case "list_tasks":
		var req ListTasksParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		records := h.tasks.ListTasks(workspace.ListOptions{Path: req.Path, Limit: req.Limit})
		return ListTasksResponse{Tasks: records, Count: len(records)}, nil
	case "search_tasks":
		var req SearchTasksParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		hits, err := h.tasks.Search(ctx, req.Text, req.Limit)
		if err != nil {
			return nil, mapError(err)
		}
		return hits, nil
	case "toggle_task":
		var req ToggleTaskParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		res, err := h.tasks.Toggle(ctx, tenantID, req.origin())
		if err != nil {
			return nil, mapError(err)
		}
		return res, nil
	case "shift_priority":
		var req ShiftPriorityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		res, err := h.tasks.ShiftPriority(ctx, tenantID, req.origin(), workspace.Direction(req.Direction))
		if err != nil {
			return nil, mapError(err)
		}
		return res, nil
	case "toggle_line":
		var req ToggleLineParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		line, err := h.tasks.ToggleLine(req.Line)
		if err != nil {
			return nil, mapError(err)
		}
		return ToggleLineResponse{Line: line}, nil
	case "render_note":
		var req RenderNoteParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		res, err := h.tasks.RenderNote(ctx, req.Path)
		if err != nil {
			return nil, mapError(err)
		}
		return res, nil
	case "refresh_vault":
		snap, err := h.tasks.Refresh(ctx, tenantID)
		if err != nil {
			return nil, mapError(err)
		}
		return RefreshVaultResponse{Version: snap.Version, Tasks: len(snap.Records)}, nil
	case "get_recent_activity":
		var req GetRecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		opts := activity.ListActivityOptions{Path: req.Path, Limit: req.Limit}
		if req.Type != "" {
			typ, err := activity.ParseType(req.Type)
			if err != nil {
				return nil, mapError(err)
			}
			opts.ActivityType = &typ
		}
		if req.Since != "" {
			since, err := activity.ParseSince(req.Since)
			if err != nil {
				return nil, mapError(err)
			}
			opts.Since = since
		}
		entries, err := h.activity.GetRecentActivity(ctx, tenantID, opts)
		if err != nil {
			return nil, mapError(err)
		}
		resp := make([]ActivityEntryResponse, 0, len(entries))
		for _, entry := range entries {
			resp = append(resp, ActivityEntryResponse{
				Timestamp: entry.CreatedAt,
				Type:      entry.ActivityType,
				Path:      entry.Path,
				Summary:   entry.Summary,
				Details:   entry.Details,
			})
		}
		return resp, nil
	default:
		return nil, unknownMethodError(method)
	}
}

type unknownMethodError string

func (e unknownMethodError) Error() string { return "unknown method: " + string(e) }

// MethodNotFound lets transports answer with the JSON-RPC method-not-found code.
func (unknownMethodError) MethodNotFound() bool { return true }

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return &APIError{Code: "INVALID_PARAMS", Message: err.Error()}
	}
	return nil
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
