// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated
// to handler functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the deskforge CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deskforge",
		Short: "Provision Windows cloud workstations on AWS or Azure",
	}

	// Lifecycle commands
	cmd.AddCommand(Init())
	cmd.AddCommand(Config())
	cmd.AddCommand(Deploy())
	cmd.AddCommand(Status())
	cmd.AddCommand(Connect())
	cmd.AddCommand(Start())
	cmd.AddCommand(Stop())
	cmd.AddCommand(Destroy())

	// Utility commands
	cmd.AddCommand(Password())
	cmd.AddCommand(Doctor())
	cmd.AddCommand(Version())

	return cmd
}
