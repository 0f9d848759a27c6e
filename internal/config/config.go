package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Vault     VaultConfig     `yaml:"vault"`
	Git       GitConfig       `yaml:"git"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "stdio" or "http"
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

// VaultConfig locates the notes and decides which checklist items are tasks.
type VaultConfig struct {
	Path               string `yaml:"path"`
	GlobalFilter       string `yaml:"global_filter"`
	RemoveGlobalFilter bool   `yaml:"remove_global_filter"`
	Watch              bool   `yaml:"watch"`
	DebounceMillis     int    `yaml:"debounce_ms"`
}

// GitConfig enables committing the vault after tasklens edits a note.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	Push        bool   `yaml:"push"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
	SSHKeyPath  string `yaml:"ssh_key_path"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "tasklens.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		Vault: VaultConfig{
			Path:           ".",
			Watch:          true,
			DebounceMillis: 200,
		},
		Git: GitConfig{
			AuthorName:  "tasklens",
			AuthorEmail: "tasklens@localhost",
		},
	}

	if path := os.Getenv("TASKLENS_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("TASKLENS_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("TASKLENS_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid TASKLENS_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("TASKLENS_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("TASKLENS_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if mode := os.Getenv("TASKLENS_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if err := envBool("TASKLENS_AUTH_ENABLED", &cfg.Auth.Enabled); err != nil {
		return err
	}
	if vaultPath := os.Getenv("TASKLENS_VAULT_PATH"); vaultPath != "" {
		cfg.Vault.Path = vaultPath
	}
	if filter, ok := os.LookupEnv("TASKLENS_GLOBAL_FILTER"); ok {
		cfg.Vault.GlobalFilter = filter
	}
	if err := envBool("TASKLENS_REMOVE_GLOBAL_FILTER", &cfg.Vault.RemoveGlobalFilter); err != nil {
		return err
	}
	if err := envBool("TASKLENS_VAULT_WATCH", &cfg.Vault.Watch); err != nil {
		return err
	}
	if err := envBool("TASKLENS_GIT_AUTO_COMMIT", &cfg.Git.AutoCommit); err != nil {
		return err
	}
	if err := envBool("TASKLENS_GIT_PUSH", &cfg.Git.Push); err != nil {
		return err
	}
	if keyPath := os.Getenv("TASKLENS_GIT_SSH_KEY_PATH"); keyPath != "" {
		cfg.Git.SSHKeyPath = keyPath
	}
	return nil
}

func envBool(name string, dst *bool) error {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = v
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
