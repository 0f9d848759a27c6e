// Package commands implements the tasklens command line.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpggio/tasklens/internal/app"
	"github.com/rpggio/tasklens/internal/commands/options"
	"github.com/rpggio/tasklens/internal/config"
)

// cliTenant owns activity recorded from the command line.
const cliTenant = "cli"

func New() *cobra.Command {
	vo := &options.VaultOptions{}

	cmd := &cobra.Command{
		Use:          "tasklens",
		Short:        options.Wrap80("Query and edit markdown checklist tasks across a vault of notes."),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	options.AddVaultArgs(cmd, vo)

	AddCommands(cmd, vo)
	return cmd
}

func AddCommands(topLevel *cobra.Command, vo *options.VaultOptions) {
	addQuery(topLevel, vo)
	addList(topLevel, vo)
	addSearch(topLevel, vo)
	addToggle(topLevel, vo)
	addPriority(topLevel, vo)
	addToggleLine(topLevel, vo)
	addActivity(topLevel, vo)
}

// open loads configuration, applies flag overrides, and reads the vault.
func open(ctx context.Context, vo *options.VaultOptions) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if vo.Path != "" {
		cfg.Vault.Path = vo.Path
	}

	level := slog.LevelWarn
	if vo.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	a, err := app.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	if _, err := a.Workspace.Reload(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}
