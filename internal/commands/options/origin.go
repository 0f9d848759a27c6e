package options

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/rpggio/tasklens/internal/domain/task"
)

// OriginOptions identifies one task in the vault.
type OriginOptions struct {
	Path         string
	SectionStart int
	SectionIndex int
}

func AddOriginArgs(cmd *cobra.Command, o *OriginOptions) {
	cmd.Flags().StringVar(&o.Path, "path", "", "Vault-relative path of the note.")
	cmd.Flags().IntVar(&o.SectionStart, "section-start", 0,
		Wrap80("0-based line of the first item of the list holding the task."))
	cmd.Flags().IntVar(&o.SectionIndex, "index", 0, "Position of the task within its list.")
	_ = cmd.MarkFlagRequired("path")
}

func (o *OriginOptions) Origin() (task.OriginKey, error) {
	if o.Path == "" {
		return task.OriginKey{}, errors.New("--path is required")
	}
	if o.SectionStart < 0 || o.SectionIndex < 0 {
		return task.OriginKey{}, errors.New("--section-start and --index must not be negative")
	}
	return task.OriginKey{Path: o.Path, SectionStart: o.SectionStart, SectionIndex: o.SectionIndex}, nil
}
