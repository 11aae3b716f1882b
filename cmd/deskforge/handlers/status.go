package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deskforge/deskforge/internal/connect"
)

// dcvProbeTimeout bounds the per-instance remote-desktop port check.
const dcvProbeTimeout = 3 * time.Second

// Status reports the power state, agent liveness and remote-desktop
// reachability of every deployed instance.
func Status(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPathOrDefault(configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logFile, _ := openSessionLog("status")
	defer logFile.Close()

	runner := newRunner(cfg, logFile)
	outputs, err := runner.Output(ctx)
	if err != nil {
		return fmt.Errorf("failed to read stack outputs (is the fleet deployed?): %w", err)
	}
	instances := outputs.Instances()
	if len(instances) == 0 {
		fmt.Println("No deployed instances. Run 'deskforge deploy' first.")
		return nil
	}

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}

	ids := make([]string, len(instances))
	for i, inst := range instances {
		ids[i] = inst.ID
	}
	states, err := provider.InstanceStates(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to query instance states: %w", err)
	}

	printHeader(fmt.Sprintf("deskforge fleet (%s)", cfg.Provider))
	fmt.Printf("  %-22s %-16s %-12s %-10s %s\n", "INSTANCE", "IP", "STATE", "AGENT", "DESKTOP")
	fmt.Println("  " + strings.Repeat("-", 70))

	for _, inst := range instances {
		state := states[inst.ID]
		if state == "" {
			state = "unknown"
		}

		agent := "-"
		if status, err := provider.AgentStatus(ctx, inst.ID); err == nil {
			agent = status.Raw
			if status.Online {
				agent = "online"
			}
		}

		desktop := "-"
		if inst.PublicIP != "" {
			if connect.ProbeDCV(inst.PublicIP, dcvProbeTimeout) {
				desktop = "reachable"
			} else {
				desktop = "no answer"
			}
		}

		ip := inst.PublicIP
		if ip == "" {
			ip = "(none)"
		}
		fmt.Printf("  %-22s %-16s %-12s %-10s %s\n", inst.ID, ip, state, agent, desktop)
	}
	fmt.Println()

	return nil
}
