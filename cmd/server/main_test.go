package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogFileTrimsToWholeLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tasklens.log")
	lf, err := openLogFile(path, 100, 50)
	require.NoError(t, err)
	t.Cleanup(func() { _ = lf.Close() })

	for i := 0; i < 20; i++ {
		_, err := lf.Write([]byte("line " + strings.Repeat("x", i%5) + "\n"))
		require.NoError(t, err)
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.LessOrEqual(t, len(data), 100)
	require.True(t, strings.HasPrefix(string(data), "line "), string(data))
	require.True(t, strings.HasSuffix(string(data), "\n"))
}

func TestOpenLogFileRejectsKeepAboveMax(t *testing.T) {
	_, err := openLogFile(filepath.Join(t.TempDir(), "x.log"), 10, 20)
	require.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	require.Equal(t, slog.LevelWarn, parseLogLevel("WARN"))
	require.Equal(t, slog.LevelInfo, parseLogLevel("chatty"))
}
