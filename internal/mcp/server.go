package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Config contains server configuration.
type Config struct {
	Tasks         TaskService
	Activity      ActivityService
	Resolver      TenantResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Version       string
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "tasklens",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio is always local, so it never authenticates.
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	} else {
		server.AddReceivingMiddleware(noAuthMiddleware("default"))
	}
	server.AddReceivingMiddleware(sessionMiddleware())
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, NewHandler(cfg.Tasks, cfg.Activity))

	return server
}

func registerTools(server *sdkmcp.Server, h *Handler) {
	addTool[QueryTasksParams](server, h, "query_tasks",
		"Evaluate a tasks query block against every task in the vault and return matching tasks plus the rendered list")
	addTool[ListTasksParams](server, h, "list_tasks",
		"List tasks in vault order, optionally limited to one note")
	addTool[SearchTasksParams](server, h, "search_tasks",
		"Full-text search over task descriptions, headings and note paths")
	addTool[ToggleTaskParams](server, h, "toggle_task",
		"Complete or reopen the task at an origin; completing a recurring task inserts its next occurrence above it")
	addTool[ShiftPriorityParams](server, h, "shift_priority",
		"Raise, lower, or toggle waiting on the priority of the task at an origin")
	addTool[ToggleLineParams](server, h, "toggle_line",
		"Toggle a raw checklist line and return the replacement text without writing any note")
	addTool[RenderNoteParams](server, h, "render_note",
		"Evaluate every tasks block in a note")
	addTool[RefreshVaultParams](server, h, "refresh_vault",
		"Reread the vault from disk")
	addTool[GetRecentActivityParams](server, h, "get_recent_activity",
		"List recent task edits and refreshes, newest first")
}

// addTool registers a typed tool whose arguments are dispatched through
// Handler.Handle under the tool's name.
func addTool[In any](server *sdkmcp.Server, h *Handler, name, description string) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: name, Description: description},
		func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, any, error) {
			params, err := json.Marshal(in)
			if err != nil {
				return nil, nil, fmt.Errorf("encode %s arguments: %w", name, err)
			}
			out, err := h.Handle(ctx, getTenantID(ctx), getSessionID(ctx), name, params)
			if err != nil {
				return nil, nil, err
			}
			text, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return nil, nil, fmt.Errorf("encode %s result: %w", name, err)
			}
			return &sdkmcp.CallToolResult{
				Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(text)}},
			}, nil, nil
		})
}
