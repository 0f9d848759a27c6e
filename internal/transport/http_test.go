package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type testHandler struct {
	method string
	err    error
}

func (h *testHandler) Handle(_ context.Context, tenantID, sessionID, method string, params json.RawMessage) (any, error) {
	h.method = method
	if h.err != nil {
		return nil, h.err
	}
	return map[string]string{"tenant": tenantID, "session": sessionID}, nil
}

type staticResolver struct {
	tenant string
}

func (r *staticResolver) ResolveTenant(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthorized
	}
	return r.tenant, nil
}

type codedErr struct{}

func (codedErr) Error() string             { return "TASK_MOVED: note changed" }
func (codedErr) CodeValue() string         { return "TASK_MOVED" }
func (codedErr) MessageValue() string      { return "note changed" }
func (codedErr) RecoveryHintValue() string { return "refresh" }

type missingMethod struct{}

func (missingMethod) Error() string        { return "unknown method: nope" }
func (missingMethod) MethodNotFound() bool { return true }

func postRPC(t *testing.T, url, method string, headers map[string]string) Response {
	t.Helper()
	body := bytes.NewBufferString(`{"jsonrpc":"2.0","method":"` + method + `","id":1}`)
	req, err := http.NewRequest(http.MethodPost, url+"/rpc", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHTTPServer_RPC(t *testing.T) {
	handler := &testHandler{}
	resolver := &staticResolver{tenant: "tenant1"}
	server := httptest.NewServer(NewServer(handler, Options{AuthMiddleware: AuthMiddleware(resolver)}))
	t.Cleanup(server.Close)

	resp := postRPC(t, server.URL, "list_tasks", map[string]string{
		"Authorization":  "Bearer token",
		"Mcp-Session-Id": "sess1",
	})
	require.Nil(t, resp.Error)
	require.Equal(t, "list_tasks", handler.method)
	require.Equal(t, map[string]any{"tenant": "tenant1", "session": "sess1"}, resp.Result)
}

func TestHTTPServer_RPCRequiresToken(t *testing.T) {
	server := httptest.NewServer(NewServer(&testHandler{}, Options{AuthMiddleware: AuthMiddleware(&staticResolver{tenant: "t"})}))
	t.Cleanup(server.Close)

	resp, err := http.Post(server.URL+"/rpc", "application/json", bytes.NewBufferString(`{"jsonrpc":"2.0","method":"x","id":1}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHTTPServer_DefaultTenant(t *testing.T) {
	server := httptest.NewServer(NewServer(&testHandler{}, Options{DefaultTenant: "local"}))
	t.Cleanup(server.Close)

	resp := postRPC(t, server.URL, "list_tasks", nil)
	require.Equal(t, "local", resp.Result.(map[string]any)["tenant"])
}

func TestHTTPServer_ErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"coded", codedErr{}, ErrInvalidParams},
		{"missing method", missingMethod{}, ErrMethodNotFound},
		{"other", errors.New("boom"), ErrInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(NewServer(&testHandler{err: tt.err}, Options{}))
			t.Cleanup(server.Close)

			resp := postRPC(t, server.URL, "toggle_task", nil)
			require.NotNil(t, resp.Error)
			require.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestHTTPServer_Health(t *testing.T) {
	server := httptest.NewServer(NewServer(&testHandler{}, Options{
		Status: func() map[string]any { return map[string]any{"tasks": 3} },
	}))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "ok", body["status"])
	require.EqualValues(t, 3, body["tasks"])
}

func TestHTTPServer_MountsStreamable(t *testing.T) {
	streamable := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	server := httptest.NewServer(NewServer(&testHandler{}, Options{Streamable: streamable}))
	t.Cleanup(server.Close)

	resp, err := http.Post(server.URL+"/mcp", "application/json", bytes.NewBufferString(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusTeapot, resp.StatusCode)
}
