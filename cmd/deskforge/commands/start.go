package commands

import (
	"github.com/spf13/cobra"

	"github.com/deskforge/deskforge/cmd/deskforge/handlers"
)

// Start returns the command for powering on the fleet.
//
// Public IPs usually change across a stop/start cycle, so the handler
// refreshes the infrastructure outputs afterwards and rewrites the
// connection files with the new addresses.
//
// Flags:
//
//	--config, -c: Path to configuration file (default ~/.deskforge/config.yaml)
func Start() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Power on the deployed fleet",
		Long: `Power on all deployed instances.

After the instances report running, the connection files are rewritten
with the current public IP addresses. The administrator password is
unchanged; see the existing password record file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Start(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default ~/.deskforge/config.yaml)")

	return cmd
}
