package commands

import (
	"github.com/spf13/cobra"

	"github.com/deskforge/deskforge/cmd/deskforge/handlers"
)

// Connect returns the command for rolling out credentials and
// regenerating connection files.
//
// This is the same credential flow deploy runs after apply; use it to
// rotate the administrator password or to recreate lost connection
// files without touching the infrastructure.
//
// Flags:
//
//	--config, -c: Path to configuration file (default ~/.deskforge/config.yaml)
func Connect() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Roll out credentials and write connection files",
		Long: `Roll out a fresh administrator credential and write connection files.

This command waits for the management agent in each instance, sets a
newly generated administrator password on every reachable instance,
overwrites the password record file, and regenerates the connection
files on the desktop. Infrastructure is not modified.

Examples:
  # Rotate the administrator password for the whole fleet
  deskforge connect`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Connect(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default ~/.deskforge/config.yaml)")

	return cmd
}
