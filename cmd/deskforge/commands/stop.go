package commands

import (
	"github.com/spf13/cobra"

	"github.com/deskforge/deskforge/cmd/deskforge/handlers"
)

// Stop returns the command for powering off the fleet.
//
// Stopped instances keep their disks and stop accruing compute charges.
// On Azure the instances are deallocated, not merely powered off.
//
// Flags:
//
//	--config, -c: Path to configuration file (default ~/.deskforge/config.yaml)
func Stop() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Power off the deployed fleet",
		Long: `Power off all deployed instances.

Disks are preserved; run 'deskforge start' to resume work. Note that
public IP addresses may change across a stop/start cycle.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Stop(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default ~/.deskforge/config.yaml)")

	return cmd
}
