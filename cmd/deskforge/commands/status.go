package commands

import (
	"github.com/spf13/cobra"

	"github.com/deskforge/deskforge/cmd/deskforge/handlers"
)

// Status returns the command for showing the state of the fleet.
//
// For each deployed instance it reports the power state, the management
// agent's liveness, and whether the remote-desktop port answers.
//
// Flags:
//
//	--config, -c: Path to configuration file (default ~/.deskforge/config.yaml)
func Status() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the state of the deployed fleet",
		Long: `Show the state of the deployed fleet.

For each instance this reports the provider power state, whether the
management agent is online, and whether the remote-desktop endpoint
is reachable.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Status(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default ~/.deskforge/config.yaml)")

	return cmd
}
