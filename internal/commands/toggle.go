package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rpggio/tasklens/internal/commands/options"
	"github.com/rpggio/tasklens/internal/commands/printers"
	"github.com/rpggio/tasklens/internal/domain/workspace"
)

func addToggle(topLevel *cobra.Command, vo *options.VaultOptions) {
	oo := &options.OutputOptions{}
	org := &options.OriginOptions{}

	cmd := &cobra.Command{
		Use:     "toggle",
		Aliases: []string{"done", "complete"},
		Short:   "complete or reopen a task in its note",
		Long: options.Wrap80("Complete or reopen the task at the given origin. Completing a recurring " +
			"task also writes its next occurrence above it. Origins are shown by list and query."),
		Example: `
tasklens toggle --path inbox.md --section-start 2 --index 0
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			origin, err := org.Origin()
			if err != nil {
				return err
			}
			a, err := open(cmd.Context(), vo)
			if err != nil {
				return oo.HandleError(out, err)
			}
			defer a.Close()

			res, err := a.Workspace.Toggle(cmd.Context(), cliTenant, origin)
			if err != nil {
				return oo.HandleError(out, err)
			}
			if oo.JSON {
				return oo.Write(out, res)
			}
			(&printers.PrettyPrint{Out: out}).Edit(res)
			return nil
		},
	}

	options.AddOriginArgs(cmd, org)
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addPriority(topLevel *cobra.Command, vo *options.VaultOptions) {
	oo := &options.OutputOptions{}
	org := &options.OriginOptions{}
	valid := []string{string(workspace.DirectionUp), string(workspace.DirectionDown), string(workspace.DirectionWaiting)}

	cmd := &cobra.Command{
		Use:       "priority <up|down|waiting>",
		Short:     "shift the priority of a task",
		ValidArgs: valid,
		Example: `
tasklens priority up --path inbox.md --section-start 2 --index 1
tasklens priority waiting --path inbox.md --section-start 2 --index 1
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("requires a direction: %s", strings.Join(valid, ", "))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			origin, err := org.Origin()
			if err != nil {
				return err
			}
			a, err := open(cmd.Context(), vo)
			if err != nil {
				return oo.HandleError(out, err)
			}
			defer a.Close()

			res, err := a.Workspace.ShiftPriority(cmd.Context(), cliTenant, origin, workspace.Direction(args[0]))
			if err != nil {
				return oo.HandleError(out, err)
			}
			if oo.JSON {
				return oo.Write(out, res)
			}
			(&printers.PrettyPrint{Out: out}).Edit(res)
			return nil
		},
	}

	options.AddOriginArgs(cmd, org)
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addToggleLine(topLevel *cobra.Command, vo *options.VaultOptions) {
	cmd := &cobra.Command{
		Use:   "toggle-line [-- line]",
		Short: "toggle a checklist line given as text",
		Long: options.Wrap80("Print the replacement for a checklist line as if it were toggled in a note. " +
			"No file is touched. Task lines start with '-', so pass the line after -- or on stdin."),
		Example: `
tasklens toggle-line -- '- [ ] water plants 🔁 every week 📅 2024-03-14'
echo '- [x] stretch ✅ 2024-03-01' | tasklens toggle-line
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := readLine(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			a, err := open(cmd.Context(), vo)
			if err != nil {
				return err
			}
			defer a.Close()

			toggled, err := a.Workspace.ToggleLine(line)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), toggled)
			return err
		},
	}
	topLevel.AddCommand(cmd)
}

// readLine returns the single argument, or the first line of stdin.
func readLine(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	sc := bufio.NewScanner(stdin)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", errors.New("no line given: pass it after -- or on stdin")
	}
	return strings.TrimRight(sc.Text(), "\r"), nil
}
