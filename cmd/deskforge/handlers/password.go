package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/deskforge/deskforge/internal/config"
	"github.com/deskforge/deskforge/internal/platform"
)

// passwordRetriever is implemented by providers that can recover the
// boot-time administrator password for an instance.
type passwordRetriever interface {
	InitialAdminPassword(ctx context.Context, instanceID string, privateKeyPEM []byte) (string, error)
}

// readKeyFile reads the private key. Factory var for tests.
var readKeyFile = os.ReadFile

// Password retrieves the initial Windows administrator password of a
// deployed instance by decrypting the EC2 password data with the key
// pair's private key. keyPath and instanceID are optional: they default
// to ~/.ssh/<key_pair_name>.pem and the first deployed instance.
func Password(ctx context.Context, configPath, keyPath, instanceID string) error {
	cfg, err := loadConfig(configPathOrDefault(configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Provider != config.ProviderAWS {
		return fmt.Errorf("initial password retrieval is only available on AWS, provider is %q", cfg.Provider)
	}

	if keyPath == "" {
		if cfg.AWS.KeyPairName == "" {
			return fmt.Errorf("no key pair configured; set aws.key_pair_name or pass --key")
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot resolve home directory for default key path: %w", err)
		}
		keyPath = filepath.Join(home, ".ssh", cfg.AWS.KeyPairName+".pem")
	}
	pemBytes, err := readKeyFile(keyPath)
	if err != nil {
		return fmt.Errorf("failed to read private key %s: %w", keyPath, err)
	}

	logFile, _ := openSessionLog("password")
	defer logFile.Close()

	runner := newRunner(cfg, logFile)
	outputs, err := runner.Output(ctx)
	if err != nil {
		return fmt.Errorf("failed to read stack outputs (is the fleet deployed?): %w", err)
	}
	instance, err := pickInstance(outputs.Instances(), instanceID)
	if err != nil {
		return err
	}

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}
	retriever, ok := provider.(passwordRetriever)
	if !ok {
		return fmt.Errorf("provider %q cannot retrieve the initial password", cfg.Provider)
	}

	fmt.Printf("Retrieving password data for %s (available a few minutes after first boot)...\n", instance.ID)
	password, err := retriever.InitialAdminPassword(ctx, instance.ID, pemBytes)
	if err != nil {
		return err
	}

	printHeader("Initial administrator password")
	printRow(instance.ID, true, instance.PublicIP)
	fmt.Println()
	fmt.Println("  Username: Administrator")
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("  This is the password Windows generated at launch. 'deskforge connect'")
	fmt.Println("  replaces it with a fresh credential across the fleet.")
	fmt.Println()
	return nil
}

// pickInstance selects the queried instance, defaulting to the first
// deployed one.
func pickInstance(instances []platform.Instance, instanceID string) (platform.Instance, error) {
	if len(instances) == 0 {
		return platform.Instance{}, fmt.Errorf("no deployed instances found; run 'deskforge deploy' first")
	}
	if instanceID == "" {
		return instances[0], nil
	}
	for _, inst := range instances {
		if inst.ID == instanceID {
			return inst, nil
		}
	}
	return platform.Instance{}, fmt.Errorf("instance %q not found in the deployed fleet", instanceID)
}
