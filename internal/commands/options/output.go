// Package options defines shared flag helpers for CLI commands.
package options

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// OutputOptions selects machine-readable output.
type OutputOptions struct {
	JSON bool
}

func AddOutputArg(cmd *cobra.Command, o *OutputOptions) {
	cmd.Flags().BoolVar(&o.JSON, "json", false, "Output as JSON.")
}

// Write encodes v as indented JSON.
func (o *OutputOptions) Write(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// HandleError reports err as a JSON object when --json is set, and returns
// it unchanged otherwise.
func (o *OutputOptions) HandleError(w io.Writer, err error) error {
	if o.JSON && err != nil {
		b, mErr := json.Marshal(map[string]string{"error": err.Error()})
		if mErr != nil {
			return mErr
		}
		_, _ = fmt.Fprintln(w, string(b))
		return nil
	}
	return err
}
