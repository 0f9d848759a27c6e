package commands

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpggio/tasklens/internal/commands/options"
	"github.com/rpggio/tasklens/internal/commands/printers"
)

func addQuery(topLevel *cobra.Command, vo *options.VaultOptions) {
	oo := &options.OutputOptions{}
	var note string

	cmd := &cobra.Command{
		Use:   "query [file]",
		Short: "evaluate a tasks query",
		Long: options.Wrap80("Evaluate a tasks query read from file, or from stdin when no file is given. " +
			"With --note, evaluate every tasks block of a note instead."),
		Example: `
tasklens query weekly.query
printf 'not done\nsort by urgency\nlimit 5\n' | tasklens query
tasklens query --note projects/launch.md
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			a, err := open(cmd.Context(), vo)
			if err != nil {
				return oo.HandleError(out, err)
			}
			defer a.Close()

			pp := &printers.PrettyPrint{Out: out, ShowOrigin: true}
			if note != "" {
				if len(args) > 0 {
					return errors.New("pass either a query file or --note, not both")
				}
				res, err := a.Workspace.RenderNote(cmd.Context(), note)
				if err != nil {
					return oo.HandleError(out, err)
				}
				if oo.JSON {
					return oo.Write(out, res)
				}
				for _, q := range res.Queries {
					pp.Query(q)
				}
				return nil
			}

			source, err := readSource(cmd.InOrStdin(), args)
			if err != nil {
				return oo.HandleError(out, err)
			}
			res := a.Workspace.Query(source)
			if oo.JSON {
				return oo.Write(out, res)
			}
			pp.Query(res)
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Evaluate the tasks blocks of this vault-relative note.")
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func readSource(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
