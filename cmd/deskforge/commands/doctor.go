package commands

import (
	"github.com/spf13/cobra"

	"github.com/deskforge/deskforge/cmd/deskforge/handlers"
)

// Doctor returns the command for diagnosing the local environment.
//
// It checks required tooling (terraform, provider CLI), validates the
// configuration file, and probes the provider API with the configured
// credentials.
//
// Flags:
//
//	--config, -c: Path to configuration file (default ~/.deskforge/config.yaml)
func Doctor() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the local environment and configuration",
		Long: `Diagnose the local environment and configuration.

Checks that the required tools are installed, that the configuration
file is valid, and that the provider API is reachable with the
configured credentials.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default ~/.deskforge/config.yaml)")

	return cmd
}
