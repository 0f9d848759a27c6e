package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rpggio/tasklens/internal/commands/options"
	"github.com/rpggio/tasklens/internal/commands/printers"
	"github.com/rpggio/tasklens/internal/domain/workspace"
)

func addList(topLevel *cobra.Command, vo *options.VaultOptions) {
	oo := &options.OutputOptions{}
	lo := workspace.ListOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "list tasks in vault order",
		Example: `
tasklens list
tasklens list --path inbox.md --limit 10
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			a, err := open(cmd.Context(), vo)
			if err != nil {
				return oo.HandleError(out, err)
			}
			defer a.Close()

			records := a.Workspace.ListTasks(lo)
			if oo.JSON {
				return oo.Write(out, records)
			}
			pp := &printers.PrettyPrint{Out: out, ShowOrigin: true}
			title := "Tasks"
			if lo.Path != "" {
				title = strings.TrimSuffix(lo.Path, ".md")
			}
			pp.Title(title, len(records))
			pp.Tasks(records)
			return nil
		},
	}

	cmd.Flags().StringVar(&lo.Path, "path", "", "Only list tasks of this note.")
	cmd.Flags().IntVar(&lo.Limit, "limit", 0, "Maximum number of tasks; 0 lists all.")
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
