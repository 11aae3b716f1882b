package handlers

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/deskforge/deskforge/internal/config"
	"github.com/deskforge/deskforge/internal/connect"
	"github.com/deskforge/deskforge/internal/platform"
	"github.com/deskforge/deskforge/internal/provision"
	"github.com/deskforge/deskforge/internal/terraform"
	"github.com/deskforge/deskforge/internal/ui/tui"
)

// Connect rolls out a fresh administrator credential across the deployed
// fleet and regenerates the connection files. Infrastructure is not
// touched; the instance list comes from the current stack outputs.
func Connect(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPathOrDefault(configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logFile, logPath := openSessionLog("connect")
	defer logFile.Close()

	runner := newRunner(cfg, logFile)
	outputs, err := runner.Output(ctx)
	if err != nil {
		return fmt.Errorf("failed to read stack outputs (is the fleet deployed?): %w", err)
	}
	instances := outputs.Instances()
	if len(instances) == 0 {
		return fmt.Errorf("no deployed instances found; run 'deskforge deploy' first")
	}

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := provisionFleet(ctx, cfg, provider, instances, logFile)
	if err != nil {
		return err
	}

	printBatchSummary(result, instances, logPath)
	return nil
}

// provisionFleet runs the credential batch with the appropriate observer:
// the dashboard on an interactive terminal, plain log lines otherwise.
// Factory var so deploy tests can stub the rollout.
var provisionFleet = func(ctx context.Context, cfg *config.Config, provider platform.Provider, instances []platform.Instance, logSink io.Writer) (provision.BatchResult, error) {
	record := &provision.FileRecordWriter{
		Path: filepath.Join(connect.DefaultDir(), provision.RecordFileName),
	}
	descriptors := &connect.Writer{
		Dir:    connect.DefaultDir(),
		Format: connect.Format(cfg.ConnectionFormat),
	}

	if !isInteractiveTTY() {
		logger := log.New(logSink, "", log.LstdFlags)
		orch := provision.NewOrchestrator(provider, provision.NewLogObserver(logger), record, descriptors)
		return orch.ProvisionCredentials(ctx, instances)
	}

	var result provision.BatchResult
	title := fmt.Sprintf("Provisioning credentials (%d instances)", len(instances))
	err := tui.RunProvisionTUI(title, func(ch chan<- tea.Msg) error {
		orch := provision.NewOrchestrator(provider, &channelObserver{ch: ch}, record, descriptors)
		r, err := orch.ProvisionCredentials(ctx, instances)
		if err != nil {
			return err
		}
		result = r
		ch <- tui.PhaseMsg{Phase: "dispatch", Done: true}
		for _, inst := range instances {
			ch <- tui.InstanceMsg{
				InstanceID: inst.ID,
				State:      string(r.PerInstance[inst.ID]),
				Reason:     truncateForDisplay(r.Failures[inst.ID]),
			}
		}
		ch <- tui.PhaseMsg{Phase: "descriptors", Done: true}
		return nil
	})
	return result, err
}

// channelObserver translates orchestrator progress into dashboard
// messages. Printf detail attaches to whichever phase last reported
// progress so log lines never advance the phase list on their own.
type channelObserver struct {
	ch    chan<- tea.Msg
	phase string
}

func (o *channelObserver) Printf(format string, v ...any) {
	key := o.phase
	if key == "" {
		key = "readiness"
	}
	o.ch <- tui.PhaseMsg{Phase: key, Detail: truncateForDisplay(fmt.Sprintf(format, v...))}
}

// Progress only advances the counter; phase completion is signalled by
// the batch driver. Skipped instances never report progress, so the
// counter may stop short of total on a partially ready fleet.
func (o *channelObserver) Progress(phase string, current, total int) {
	key := phase
	if phase == "credentials" {
		key = "dispatch"
	}
	o.phase = key
	o.ch <- tui.PhaseMsg{
		Phase:  key,
		Detail: fmt.Sprintf("%d/%d", current, total),
	}
}

// printBatchSummary prints the per-instance outcome after the batch.
func printBatchSummary(result provision.BatchResult, instances []platform.Instance, logPath string) {
	printHeader("Credential rollout")
	for _, inst := range instances {
		state := result.PerInstance[inst.ID]
		switch state {
		case provision.StateApplied:
			printRow(inst.ID, true, inst.PublicIP)
		case provision.StateFailed:
			printRow(inst.ID, false, truncateForDisplay(result.Failures[inst.ID]))
		default:
			printRow(inst.ID, false, "never became ready")
		}
	}
	fmt.Println()
	if result.Credential != "" {
		fmt.Printf("  Passwords written to %s\n", filepath.Join(connect.DefaultDir(), provision.RecordFileName))
		fmt.Printf("  Connection files in  %s\n", connect.DefaultDir())
	}
	if logPath != "" {
		fmt.Printf("  Full log:            %s\n", logPath)
	}
	fmt.Println()
}

// refreshDescriptors rewrites connection files from current outputs
// without touching credentials. Used after start, when public IPs
// changed but the administrator password is still valid.
func refreshDescriptors(cfg *config.Config, outputs terraform.Outputs) error {
	descriptors := &connect.Writer{
		Dir:    connect.DefaultDir(),
		Format: connect.Format(cfg.ConnectionFormat),
	}
	for _, inst := range outputs.Instances() {
		if inst.PublicIP == "" {
			continue
		}
		if _, err := descriptors.WriteDescriptor(inst, "Administrator", ""); err != nil {
			return err
		}
	}
	return nil
}
