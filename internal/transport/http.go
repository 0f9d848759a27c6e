package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MCPHandler handles MCP method dispatch.
type MCPHandler interface {
	Handle(ctx context.Context, tenantID, sessionID, method string, params json.RawMessage) (any, error)
}

// Options configures the HTTP router.
type Options struct {
	// AuthMiddleware guards /rpc. When nil every request runs as DefaultTenant.
	AuthMiddleware func(http.Handler) http.Handler
	DefaultTenant  string
	// Streamable is mounted at /mcp when set. It authenticates on its own.
	Streamable http.Handler
	// Status reports extra fields for /health.
	Status func() map[string]any
}

// Server wires HTTP handlers.
type Server struct {
	handler MCPHandler
	status  func() map[string]any
}

// NewServer creates an HTTP server router with middleware.
func NewServer(handler MCPHandler, opts Options) *chi.Mux {
	r := chi.NewRouter()
	srv := &Server{handler: handler, status: opts.Status}

	r.Get("/health", srv.handleHealth)
	if opts.Streamable != nil {
		r.Handle("/mcp", opts.Streamable)
		r.Handle("/mcp/*", opts.Streamable)
	}

	r.Group(func(r chi.Router) {
		if opts.AuthMiddleware != nil {
			r.Use(opts.AuthMiddleware)
		} else {
			r.Use(DefaultTenantMiddleware(opts.DefaultTenant))
		}
		r.Use(SessionMiddleware)
		r.Post("/rpc", srv.handleRPC)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{"status": "ok"}
	if s.status != nil {
		for k, v := range s.status() {
			body[k] = v
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		WriteError(w, nil, ErrInvalidReq, "invalid request", nil)
		return
	}

	tenantID, ok := TenantFromContext(r.Context())
	if !ok || tenantID == "" {
		http.Error(w, "missing tenant", http.StatusUnauthorized)
		return
	}

	sessionID, _ := SessionIDFromContext(r.Context())

	result, err := s.handler.Handle(r.Context(), tenantID, sessionID, req.Method, req.Params)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		writeHandlerError(w, req.ID, err)
		return
	}

	WriteResult(w, req.ID, result)
}
