// Package app assembles the vault, task store, and persistence layers into a
// running workspace shared by the server and the CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rpggio/tasklens/internal/config"
	"github.com/rpggio/tasklens/internal/domain/activity"
	"github.com/rpggio/tasklens/internal/domain/collection"
	"github.com/rpggio/tasklens/internal/domain/task"
	"github.com/rpggio/tasklens/internal/domain/workspace"
	"github.com/rpggio/tasklens/internal/recurrence"
	"github.com/rpggio/tasklens/internal/sqlite"
	"github.com/rpggio/tasklens/internal/vault"
	"github.com/rpggio/tasklens/internal/vcs"
)

// App holds the wired services.
type App struct {
	DB        *sqlite.DB
	Vault     *vault.Vault
	Store     *collection.Store
	Workspace *workspace.Service
	Activity  *activity.Service
	APIKeys   *sqlite.APIKeyRepository

	logger *slog.Logger
}

// New opens the database, runs migrations and builds the services. The vault
// is not read until Reload or Watch is called.
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	settings := task.Settings{
		GlobalFilter:       cfg.Vault.GlobalFilter,
		RemoveGlobalFilter: cfg.Vault.RemoveGlobalFilter,
	}
	v := vault.New(cfg.Vault.Path, settings, logger)
	store := collection.NewStore(logger)
	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), logger)

	opts := workspace.Options{
		Settings:  settings,
		Evaluator: recurrence.NewEvaluator(),
		Index:     sqlite.NewTaskIndexRepository(db),
		Activity:  activitySvc,
		Logger:    logger,
	}
	if cfg.Git.AutoCommit {
		opts.Committer = vcs.NewCommitter(cfg.Vault.Path, vcs.Options{
			AuthorName:  cfg.Git.AuthorName,
			AuthorEmail: cfg.Git.AuthorEmail,
			Push:        cfg.Git.Push,
			SSHKeyPath:  cfg.Git.SSHKeyPath,
		}, logger)
	}

	return &App{
		DB:        db,
		Vault:     v,
		Store:     store,
		Workspace: workspace.NewService(store, v, opts),
		Activity:  activitySvc,
		APIKeys:   sqlite.NewAPIKeyRepository(db),
		logger:    logger,
	}, nil
}

// Close releases the database.
func (a *App) Close() error {
	return a.DB.Close()
}

// Status reports store state for health checks.
func (a *App) Status() map[string]any {
	snap := a.Store.Snapshot()
	return map[string]any{
		"state":   snap.State,
		"tasks":   len(snap.Records),
		"version": snap.Version,
	}
}

// Watch reloads the vault whenever notes change until ctx is done.
func (a *App) Watch(ctx context.Context, delay time.Duration) error {
	events, err := vault.Watch(ctx, a.Vault.Root(), delay, a.logger)
	if err != nil {
		return fmt.Errorf("watch vault: %w", err)
	}
	go func() {
		for ev := range events {
			a.logger.Debug("vault changed", "paths", ev.Paths, "rescan", ev.Rescan)
			if _, err := a.Workspace.Reload(ctx); err != nil {
				a.logger.Warn("vault reload failed", "error", err)
			}
		}
	}()
	return nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
