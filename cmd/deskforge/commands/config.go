package commands

import (
	"github.com/spf13/cobra"

	"github.com/deskforge/deskforge/cmd/deskforge/handlers"
)

// Config returns the command for viewing the current configuration.
//
// Secrets (AWS secret key, filespace password) are masked in the output.
//
// Flags:
//
//	--config, -c: Path to configuration file (default ~/.deskforge/config.yaml)
func Config() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the current deployment configuration",
		Long: `Show the current deployment configuration.

Secret values are masked. Run 'deskforge init' to change the
configuration.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Config(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default ~/.deskforge/config.yaml)")

	return cmd
}
