package handlers

import (
	"context"
	"fmt"

	"github.com/deskforge/deskforge/internal/config"
	"github.com/deskforge/deskforge/internal/platform/aws"
)

// Init runs the configuration wizard and writes the result.
//
// When AWS credentials are already present in an existing configuration,
// the GPU instance-type catalog is refreshed from the EC2 API so the
// wizard offers live choices instead of the static fallback.
func Init(ctx context.Context, outputPath string) error {
	if outputPath == "" {
		outputPath = config.DefaultPath()
	}

	if fileExists(outputPath) {
		fmt.Printf("Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome()
	refreshCatalog(ctx, outputPath)

	cfg, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	if err := saveConfig(outputPath, cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)
	return nil
}

// refreshCatalog populates the wizard's instance-type options from the
// EC2 API when a previous configuration already carries usable AWS
// credentials. Best effort: the wizard falls back to a static catalog.
func refreshCatalog(ctx context.Context, path string) {
	prev, err := loadConfig(path)
	if err != nil || prev.Provider != config.ProviderAWS {
		return
	}
	client, err := aws.NewClient(ctx, prev.AWS.Region, prev.AWS.AccessKeyID, prev.AWS.SecretAccessKey)
	if err != nil {
		return
	}
	config.FetchInstanceTypeOptions(ctx, client)
}

func printWelcome() {
	fmt.Println()
	fmt.Println("deskforge - Windows cloud workstations")
	fmt.Println("======================================")
	fmt.Println()
	fmt.Println("This wizard creates a deployment configuration with sensible defaults.")
	fmt.Println("Credentials stay on this machine; the filespace password is stored")
	fmt.Println("obfuscated, never in plain text.")
	fmt.Println()
}

func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	fmt.Println("Fleet Summary")
	fmt.Println("-------------")
	fmt.Printf("  Provider:   %s\n", cfg.Provider)
	fmt.Printf("  Instances:  %d x %s\n", cfg.Instances.Count, cfg.Instances.Type)
	fmt.Printf("  Disk:       %d GB\n", cfg.Instances.VolumeSizeGB)
	if cfg.Filespace.Domain != "" {
		fmt.Printf("  Filespace:  %s on %s\n", cfg.Filespace.Domain, cfg.Filespace.MountPoint)
	}
	fmt.Printf("  Connection: %s\n", cfg.ConnectionFormat)
	fmt.Println()

	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Println("  1. Review the configuration:")
	fmt.Println("     deskforge config")
	fmt.Println()
	fmt.Println("  2. Provision the fleet:")
	fmt.Println("     deskforge deploy")
	fmt.Println()
}
