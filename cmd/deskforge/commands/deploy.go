package commands

import (
	"github.com/spf13/cobra"

	"github.com/deskforge/deskforge/cmd/deskforge/handlers"
)

// Deploy returns the command for provisioning the workstation fleet.
//
// This command renders the configuration into Terraform variables, runs
// init/validate/plan against the provider-specific stack, asks for
// confirmation, applies, and then rolls out the administrator credential
// to every instance that comes online.
//
// Flags:
//
//	--config, -c: Path to configuration file (default ~/.deskforge/config.yaml)
//	--auto-approve: Skip the interactive plan confirmation
func Deploy() *cobra.Command {
	var (
		configPath  string
		autoApprove bool
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Provision the workstation fleet",
		Long: `Provision the workstation fleet on the configured provider.

This command plans and applies the infrastructure stack, waits for the
management agent in each instance to come online, sets a freshly
generated administrator password on every reachable instance, writes
the password record file, and generates connection files on the
desktop.

Examples:
  # Deploy using ~/.deskforge/config.yaml
  deskforge deploy

  # Deploy non-interactively (CI)
  deskforge deploy --auto-approve`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Deploy(cmd.Context(), configPath, autoApprove)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default ~/.deskforge/config.yaml)")
	cmd.Flags().BoolVar(&autoApprove, "auto-approve", false, "Skip the plan confirmation prompt")

	return cmd
}
