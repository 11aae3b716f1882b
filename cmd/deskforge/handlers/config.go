package handlers

import (
	"context"
	"fmt"

	"github.com/deskforge/deskforge/internal/config"
)

// Config prints the current configuration with secrets masked.
func Config(_ context.Context, configPath string) error {
	path := configPathOrDefault(configPath)
	cfg, err := loadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w (run 'deskforge init' first)", err)
	}

	printHeader("deskforge configuration")
	fmt.Printf("  File:       %s\n", path)
	fmt.Printf("  Provider:   %s\n", cfg.Provider)
	fmt.Println()

	switch cfg.Provider {
	case config.ProviderAWS:
		fmt.Println("  AWS")
		fmt.Printf("    Region:            %s\n", cfg.AWS.Region)
		fmt.Printf("    Access key ID:     %s\n", maskSecret(cfg.AWS.AccessKeyID))
		fmt.Printf("    Secret access key: %s\n", maskSecret(cfg.AWS.SecretAccessKey))
		if cfg.AWS.KeyPairName != "" {
			fmt.Printf("    Key pair:          %s\n", cfg.AWS.KeyPairName)
		}
	case config.ProviderAzure:
		fmt.Println("  Azure")
		fmt.Printf("    Subscription:   %s\n", maskSecret(cfg.Azure.SubscriptionID))
		fmt.Printf("    Location:       %s\n", cfg.Azure.Location)
		fmt.Printf("    Resource group: %s\n", cfg.Azure.ResourceGroup)
	}
	fmt.Println()

	fmt.Println("  Instances")
	fmt.Printf("    Count:       %d\n", cfg.Instances.Count)
	fmt.Printf("    Type:        %s\n", cfg.Instances.Type)
	fmt.Printf("    Disk:        %d GB\n", cfg.Instances.VolumeSizeGB)
	fmt.Printf("    Name prefix: %s\n", cfg.Instances.NamePrefix)
	fmt.Println()

	fmt.Println("  Filespace")
	fmt.Printf("    Domain:      %s\n", cfg.Filespace.Domain)
	fmt.Printf("    User:        %s\n", cfg.Filespace.User)
	fmt.Printf("    Password:    %s\n", maskSecret(cfg.Filespace.Password))
	fmt.Printf("    Mount point: %s\n", cfg.Filespace.MountPoint)
	fmt.Println()

	fmt.Printf("  Connection format: %s\n", cfg.ConnectionFormat)
	fmt.Printf("  Allowed CIDR:      %s\n", cfg.AllowedCIDR)
	fmt.Println()

	return nil
}
