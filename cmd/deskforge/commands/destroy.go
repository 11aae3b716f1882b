package commands

import (
	"github.com/spf13/cobra"

	"github.com/deskforge/deskforge/cmd/deskforge/handlers"
)

// Destroy returns the command for tearing down the fleet.
//
// Flags:
//
//	--config, -c: Path to configuration file (default ~/.deskforge/config.yaml)
//	--auto-approve: Skip the interactive confirmation
func Destroy() *cobra.Command {
	var (
		configPath  string
		autoApprove bool
	)

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Tear down the deployed fleet",
		Long: `Tear down all deployed infrastructure.

This destroys the instances including their disks. Anything not saved
to the network filesystem is lost.

Examples:
  # Destroy with confirmation prompt
  deskforge destroy

  # Destroy non-interactively (CI)
  deskforge destroy --auto-approve`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), configPath, autoApprove)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default ~/.deskforge/config.yaml)")
	cmd.Flags().BoolVar(&autoApprove, "auto-approve", false, "Skip the confirmation prompt")

	return cmd
}
