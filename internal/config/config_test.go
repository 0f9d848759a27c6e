package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TASKLENS_CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, "tasklens.db", cfg.DB.Path)
	require.Equal(t, 200, cfg.Vault.DebounceMillis)
	require.True(t, cfg.Vault.Watch)
	require.Empty(t, cfg.Vault.GlobalFilter)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasklens.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
vault:
  path: /notes
  global_filter: "#task"
  remove_global_filter: true
git:
  auto_commit: true
`), 0o644))

	t.Setenv("TASKLENS_CONFIG_PATH", path)
	t.Setenv("TASKLENS_SERVER_PORT", "9100")
	t.Setenv("TASKLENS_VAULT_WATCH", "false")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, "/notes", cfg.Vault.Path)
	require.Equal(t, "#task", cfg.Vault.GlobalFilter)
	require.True(t, cfg.Vault.RemoveGlobalFilter)
	require.False(t, cfg.Vault.Watch)
	require.True(t, cfg.Git.AutoCommit)
	require.Equal(t, "tasklens", cfg.Git.AuthorName)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("TASKLENS_CONFIG_PATH", "")
	t.Setenv("TASKLENS_SERVER_PORT", "eighty")

	_, err := Load()
	require.ErrorContains(t, err, "invalid TASKLENS_SERVER_PORT")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("TASKLENS_CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	require.ErrorContains(t, err, "read config file")
}
