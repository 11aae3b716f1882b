package commands

import (
	"github.com/spf13/cobra"

	"github.com/deskforge/deskforge/cmd/deskforge/handlers"
)

// Init returns the command for interactively creating a deployment
// configuration.
//
// The wizard walks through provider selection, credentials, the
// workstation fleet (GPU instance type, count, disk size), the network
// filesystem mount and the connection file format, then writes the
// result to ~/.deskforge/config.yaml.
//
// Flags:
//
//	--output, -o: Path to output file (default ~/.deskforge/config.yaml)
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a deployment configuration",
		Long: `Interactively create a deployment configuration file.

This command guides you through configuring your workstation fleet
step by step. It will ask about:

  - Cloud provider (AWS or Azure)
  - Provider credentials and placement
  - GPU instance type (fetched live from the provider where possible)
  - Instance count and disk size
  - Network filesystem domain, user and mount point
  - Connection file format (DCV or RDP)

Filespace passwords are stored base64-obfuscated, never in plain text.

Examples:
  # Create the default configuration
  deskforge init

  # Write the configuration somewhere else
  deskforge init -o staging.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default ~/.deskforge/config.yaml)")

	return cmd
}
