// Package testserver runs the full HTTP stack over a temporary vault for
// functional tests.
package testserver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/tasklens/internal/app"
	"github.com/rpggio/tasklens/internal/config"
	"github.com/rpggio/tasklens/internal/mcp"
	"github.com/rpggio/tasklens/internal/transport"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server   *httptest.Server
	App      *app.App
	VaultDir string
	Token    string
	TenantID string
}

// New writes notes into a fresh vault, loads it, and serves /rpc, /mcp and
// /health behind bearer auth.
func New(t *testing.T, token, tenantID string, notes map[string]string) *TestServer {
	t.Helper()

	dir := t.TempDir()
	for name, content := range notes {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfg := config.Config{
		DB:        config.DBConfig{Path: fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))},
		Transport: config.TransportConfig{Mode: "http"},
		Auth:      config.AuthConfig{Enabled: true},
		Vault:     config.VaultConfig{Path: dir},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	a, err := app.New(cfg, logger)
	require.NoError(t, err)
	_, err = a.Workspace.Reload(context.Background())
	require.NoError(t, err)

	mcpServer := mcp.NewServer(mcp.Config{
		Tasks:         a.Workspace,
		Activity:      a.Activity,
		Resolver:      a.APIKeys,
		AuthEnabled:   true,
		TransportMode: "http",
		Logger:        logger,
	})
	streamable := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: time.Minute},
	)

	server := httptest.NewServer(transport.NewServer(mcp.NewHandler(a.Workspace, a.Activity), transport.Options{
		AuthMiddleware: transport.AuthMiddleware(a.APIKeys),
		Streamable:     streamable,
		Status:         a.Status,
	}))

	ts := &TestServer{
		Server:   server,
		App:      a,
		VaultDir: dir,
		Token:    token,
		TenantID: tenantID,
	}
	require.NoError(t, ts.AddAPIKey(token, tenantID))

	t.Cleanup(func() {
		server.Close()
		_ = a.Close()
	})

	return ts
}

func (ts *TestServer) AddAPIKey(token, tenantID string) error {
	return ts.App.APIKeys.Create(context.Background(), token, tenantID, "test")
}

// ReadNote returns a note's current content from disk.
func (ts *TestServer) ReadNote(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(ts.VaultDir, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}
