package commands

import (
	"github.com/spf13/cobra"

	"github.com/deskforge/deskforge/cmd/deskforge/handlers"
)

// Password returns the command for retrieving the initial Windows
// administrator password (AWS only).
//
// EC2 encrypts the boot-time administrator password with the public key
// of the instance's key pair; decrypting it needs the matching private
// key file. This is the fallback when the agent-based credential rollout
// is not wanted or failed — the password printed here is the one Windows
// generated at first boot, not one set by 'deskforge connect'.
//
// Flags:
//
//	--config, -c: Path to configuration file (default ~/.deskforge/config.yaml)
//	--key, -k: Path to the key pair's private key file (default ~/.ssh/<key_pair_name>.pem)
//	--instance, -i: Instance ID to query (default: first deployed instance)
func Password() *cobra.Command {
	var (
		configPath string
		keyPath    string
		instanceID string
	)

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Retrieve the initial Windows administrator password (AWS)",
		Long: `Retrieve the initial Windows administrator password.

Decrypts the EC2 boot-time password using the private key of the key
pair the instances were launched with. Password data becomes available
a few minutes after first boot.

This is independent of 'deskforge connect': connect sets a fresh shared
password via the management agent, while this command recovers the one
Windows generated at launch.

Examples:
  # Password of the first deployed instance, key at ~/.ssh/<key pair>.pem
  deskforge password

  # Specific instance and key file
  deskforge password -i i-0abc123 -k ~/keys/deskforge.pem`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Password(cmd.Context(), configPath, keyPath, instanceID)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default ~/.deskforge/config.yaml)")
	cmd.Flags().StringVarP(&keyPath, "key", "k", "", "Path to private key file (default ~/.ssh/<key_pair_name>.pem)")
	cmd.Flags().StringVarP(&instanceID, "instance", "i", "", "Instance ID (default: first deployed instance)")

	return cmd
}
