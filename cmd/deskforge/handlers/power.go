package handlers

import (
	"context"
	"fmt"
)

// Start powers on the deployed fleet and rewrites the connection files
// with the refreshed public IP addresses.
func Start(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPathOrDefault(configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logFile, _ := openSessionLog("start")
	defer logFile.Close()

	runner := newRunner(cfg, logFile)
	outputs, err := runner.Output(ctx)
	if err != nil {
		return fmt.Errorf("failed to read stack outputs (is the fleet deployed?): %w", err)
	}
	instances := outputs.Instances()
	if len(instances) == 0 {
		return fmt.Errorf("no deployed instances found")
	}

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}

	ids := make([]string, len(instances))
	for i, inst := range instances {
		ids[i] = inst.ID
	}

	fmt.Printf("Starting %d instance(s)...\n", len(ids))
	if err := provider.StartInstances(ctx, ids); err != nil {
		return fmt.Errorf("failed to start instances: %w", err)
	}

	// IPs may have changed across the stop/start cycle.
	outputs, err = runner.Output(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh stack outputs: %w", err)
	}
	if err := refreshDescriptors(cfg, outputs); err != nil {
		return fmt.Errorf("failed to rewrite connection files: %w", err)
	}

	fmt.Println("Fleet started. Connection files refreshed; the administrator")
	fmt.Println("password is unchanged.")
	return nil
}

// Stop powers off the deployed fleet. Disks are preserved.
func Stop(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPathOrDefault(configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logFile, _ := openSessionLog("stop")
	defer logFile.Close()

	runner := newRunner(cfg, logFile)
	outputs, err := runner.Output(ctx)
	if err != nil {
		return fmt.Errorf("failed to read stack outputs (is the fleet deployed?): %w", err)
	}
	instances := outputs.Instances()
	if len(instances) == 0 {
		return fmt.Errorf("no deployed instances found")
	}

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}

	ids := make([]string, len(instances))
	for i, inst := range instances {
		ids[i] = inst.ID
	}

	fmt.Printf("Stopping %d instance(s)...\n", len(ids))
	if err := provider.StopInstances(ctx, ids); err != nil {
		return fmt.Errorf("failed to stop instances: %w", err)
	}

	fmt.Println("Fleet stopped. Run 'deskforge start' to resume work.")
	return nil
}
