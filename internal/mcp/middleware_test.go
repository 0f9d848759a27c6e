package mcp

import (
	"context"
	"errors"
	"net/http"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

type mapResolver map[string]string

func (m mapResolver) ResolveTenant(_ context.Context, token string) (string, error) {
	tenant, ok := m[token]
	if !ok {
		return "", errors.New("not found")
	}
	return tenant, nil
}

func toolRequest(header http.Header) *sdkmcp.ServerRequest[*sdkmcp.CallToolParamsRaw] {
	return &sdkmcp.ServerRequest[*sdkmcp.CallToolParamsRaw]{
		Params: &sdkmcp.CallToolParamsRaw{Name: "list_tasks"},
		Extra:  &sdkmcp.RequestExtra{Header: header},
	}
}

func captureContext(got *context.Context) sdkmcp.MethodHandler {
	return func(ctx context.Context, _ string, _ sdkmcp.Request) (sdkmcp.Result, error) {
		*got = ctx
		return nil, nil
	}
}

func TestAuthMiddleware(t *testing.T) {
	var got context.Context
	handler := authMiddleware(mapResolver{"secret": "tenant1"})(captureContext(&got))

	_, err := handler(context.Background(), "tools/call", toolRequest(http.Header{"Authorization": {"Bearer secret"}}))
	require.NoError(t, err)
	require.Equal(t, "tenant1", getTenantID(got))

	_, err = handler(context.Background(), "tools/call", toolRequest(http.Header{"Authorization": {"Bearer nope"}}))
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = handler(context.Background(), "tools/call", toolRequest(nil))
	require.ErrorIs(t, err, ErrUnauthorized)

	got = nil
	_, err = handler(context.Background(), "initialize", toolRequest(nil))
	require.NoError(t, err)
	require.Empty(t, getTenantID(got))
}

func TestSessionMiddleware(t *testing.T) {
	var got context.Context
	handler := noAuthMiddleware("default")(sessionMiddleware()(captureContext(&got)))

	_, err := handler(context.Background(), "tools/call", toolRequest(http.Header{"Mcp-Session-Id": {"sess1"}}))
	require.NoError(t, err)
	require.Equal(t, "sess1", getSessionID(got))
	require.Equal(t, "default", getTenantID(got))

	req := toolRequest(nil)
	req.Params.Meta = sdkmcp.Meta{"session_id": "sess2"}
	_, err = handler(context.Background(), "tools/call", req)
	require.NoError(t, err)
	require.Equal(t, "sess2", getSessionID(got))
}

func TestFormatPayload(t *testing.T) {
	require.Equal(t, "<nil>", formatPayload(nil))
	require.Equal(t, `{"a":1}`, formatPayload(map[string]int{"a": 1}))

	long := formatPayload(make([]int, 2000))
	require.Len(t, long, maxLoggedPayload+3)
}
