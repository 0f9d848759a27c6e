package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rpggio/tasklens/internal/commands/options"
	"github.com/rpggio/tasklens/internal/commands/printers"
)

func addSearch(topLevel *cobra.Command, vo *options.VaultOptions) {
	oo := &options.OutputOptions{}
	var limit int

	cmd := &cobra.Command{
		Use:   "search <words>",
		Short: "full-text search over tasks",
		Example: `
tasklens search taxes
tasklens search launch post --limit 5
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			a, err := open(cmd.Context(), vo)
			if err != nil {
				return oo.HandleError(out, err)
			}
			defer a.Close()

			hits, err := a.Workspace.Search(cmd.Context(), strings.Join(args, " "), limit)
			if err != nil {
				return oo.HandleError(out, err)
			}
			if oo.JSON {
				return oo.Write(out, hits)
			}
			(&printers.PrettyPrint{Out: out}).Hits(hits)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of matches.")
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
