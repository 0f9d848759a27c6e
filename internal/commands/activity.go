package commands

import (
	"github.com/spf13/cobra"

	"github.com/rpggio/tasklens/internal/commands/options"
	"github.com/rpggio/tasklens/internal/commands/printers"
	"github.com/rpggio/tasklens/internal/domain/activity"
)

func addActivity(topLevel *cobra.Command, vo *options.VaultOptions) {
	oo := &options.OutputOptions{}
	lo := activity.ListActivityOptions{}
	var tenant, typeName, since string

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "show recent task edits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if typeName != "" {
				typ, err := activity.ParseType(typeName)
				if err != nil {
					return err
				}
				lo.ActivityType = &typ
			}
			if since != "" {
				t, err := activity.ParseSince(since)
				if err != nil {
					return err
				}
				lo.Since = t
			}
			a, err := open(cmd.Context(), vo)
			if err != nil {
				return oo.HandleError(out, err)
			}
			defer a.Close()

			entries, err := a.Activity.GetRecentActivity(cmd.Context(), tenant, lo)
			if err != nil {
				return oo.HandleError(out, err)
			}
			if oo.JSON {
				return oo.Write(out, entries)
			}
			(&printers.PrettyPrint{Out: out}).Activity(entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&lo.Path, "path", "", "Only show activity for this note.")
	cmd.Flags().StringVar(&typeName, "type", "", "Only show entries of this type, e.g. task_completed.")
	cmd.Flags().StringVar(&since, "since", "", "Skip entries older than this date or RFC 3339 time.")
	cmd.Flags().IntVar(&lo.Limit, "limit", 20, "Maximum number of entries.")
	cmd.Flags().StringVar(&tenant, "tenant", cliTenant, "Tenant whose activity to show; MCP clients without auth use \"default\".")
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
