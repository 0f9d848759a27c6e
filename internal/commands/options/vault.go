package options

import "github.com/spf13/cobra"

// VaultOptions overrides where notes are read from.
type VaultOptions struct {
	Path  string
	Debug bool
}

func AddVaultArgs(cmd *cobra.Command, o *VaultOptions) {
	cmd.PersistentFlags().StringVar(&o.Path, "vault", "",
		Wrap80("Vault directory. Defaults to vault.path from the config file or TASKLENS_VAULT_PATH."))
	cmd.PersistentFlags().BoolVar(&o.Debug, "debug", false, "Log at debug level to stderr.")
}
