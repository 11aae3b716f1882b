// Package azure implements the provider capability interface on Azure
// virtual machines. Readiness comes from the VM agent instance view and
// remote execution goes through the RunPowerShellScript run command.
//
// Azure run commands are long-running operations without a server-side
// invocation ID, so the client mints one per dispatch and tracks the
// operation poller under it. This keeps the send/poll call shape uniform
// across providers.
package azure

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute"
	"github.com/google/uuid"

	"github.com/deskforge/deskforge/internal/platform"
)

// runPowerShellCommandID is the built-in Azure run command for PowerShell.
const runPowerShellCommandID = "RunPowerShellScript"

// VirtualMachinesAPI is the subset of the armcompute virtual machines
// client used by this package.
type VirtualMachinesAPI interface {
	InstanceView(ctx context.Context, resourceGroupName, vmName string, options *armcompute.VirtualMachinesClientInstanceViewOptions) (armcompute.VirtualMachinesClientInstanceViewResponse, error)
	BeginRunCommand(ctx context.Context, resourceGroupName, vmName string, parameters armcompute.RunCommandInput, options *armcompute.VirtualMachinesClientBeginRunCommandOptions) (*runtime.Poller[armcompute.VirtualMachinesClientRunCommandResponse], error)
	BeginStart(ctx context.Context, resourceGroupName, vmName string, options *armcompute.VirtualMachinesClientBeginStartOptions) (*runtime.Poller[armcompute.VirtualMachinesClientStartResponse], error)
	BeginDeallocate(ctx context.Context, resourceGroupName, vmName string, options *armcompute.VirtualMachinesClientBeginDeallocateOptions) (*runtime.Poller[armcompute.VirtualMachinesClientDeallocateResponse], error)
}

// Client implements platform.Provider for a single resource group.
// Instance IDs are VM names within that group.
type Client struct {
	vms           VirtualMachinesAPI
	resourceGroup string

	mu       sync.Mutex
	pollers  map[string]*runtime.Poller[armcompute.VirtualMachinesClientRunCommandResponse]
	finished map[string]platform.CommandResult
}

var _ platform.Provider = (*Client)(nil)

// NewClient creates an Azure provider client scoped to one subscription
// and resource group, authenticating through the default credential chain
// (environment, managed identity, az CLI login).
func NewClient(subscriptionID, resourceGroup string) (*Client, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain Azure credentials: %w", err)
	}
	vms, err := armcompute.NewVirtualMachinesClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create virtual machines client: %w", err)
	}
	return newClient(vms, resourceGroup), nil
}

func newClient(vms VirtualMachinesAPI, resourceGroup string) *Client {
	return &Client{
		vms:           vms,
		resourceGroup: resourceGroup,
		pollers:       make(map[string]*runtime.Poller[armcompute.VirtualMachinesClientRunCommandResponse]),
		finished:      make(map[string]platform.CommandResult),
	}
}

// Name implements platform.Provider.
func (c *Client) Name() string { return "azure" }

// AgentStatus implements platform.Provider. A VM whose agent has not
// reported yet shows up with no agent view; only DisplayStatus "Ready"
// counts as ready.
func (c *Client) AgentStatus(ctx context.Context, vmName string) (platform.AgentStatus, error) {
	view, err := c.vms.InstanceView(ctx, c.resourceGroup, vmName, nil)
	if err != nil {
		return platform.AgentStatus{}, fmt.Errorf("failed to query instance view for %s: %w", vmName, err)
	}

	if view.VMAgent == nil || len(view.VMAgent.Statuses) == 0 {
		return platform.AgentStatus{Raw: "NotReported"}, nil
	}

	display := derefString(view.VMAgent.Statuses[0].DisplayStatus)
	return platform.AgentStatus{
		Raw:    display,
		Online: display == "Ready",
	}, nil
}

// SendCommand implements platform.Provider.
func (c *Client) SendCommand(ctx context.Context, vmName string, script []string) (string, error) {
	lines := make([]*string, len(script))
	for i, line := range script {
		lines[i] = to.Ptr(line)
	}

	poller, err := c.vms.BeginRunCommand(ctx, c.resourceGroup, vmName, armcompute.RunCommandInput{
		CommandID: to.Ptr(runPowerShellCommandID),
		Script:    lines,
	}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to run command on %s: %w", vmName, err)
	}

	commandID := uuid.NewString()
	c.mu.Lock()
	c.pollers[commandID] = poller
	c.mu.Unlock()
	return commandID, nil
}

// CommandResult implements platform.Provider. Unknown command IDs map to
// platform.ErrCommandNotRegistered to match the SSM invocation window.
func (c *Client) CommandResult(ctx context.Context, commandID, _ string) (platform.CommandResult, error) {
	c.mu.Lock()
	if result, ok := c.finished[commandID]; ok {
		c.mu.Unlock()
		return result, nil
	}
	poller, ok := c.pollers[commandID]
	c.mu.Unlock()
	if !ok {
		return platform.CommandResult{}, platform.ErrCommandNotRegistered
	}

	if _, err := poller.Poll(ctx); err != nil {
		return platform.CommandResult{}, fmt.Errorf("failed to poll run command %s: %w", commandID, err)
	}
	if !poller.Done() {
		return platform.CommandResult{Status: platform.CommandInProgress}, nil
	}

	var result platform.CommandResult
	resp, err := poller.Result(ctx)
	if err != nil {
		result = platform.CommandResult{Status: platform.CommandFailed, Stderr: err.Error()}
	} else {
		result = resultFromRunCommand(resp.RunCommandResult)
	}

	c.mu.Lock()
	c.finished[commandID] = result
	delete(c.pollers, commandID)
	c.mu.Unlock()
	return result, nil
}

// resultFromRunCommand flattens a run command result into stdout/stderr.
// Azure folds both streams into one status message with [stdout] and
// [stderr] section markers.
func resultFromRunCommand(result armcompute.RunCommandResult) platform.CommandResult {
	var message string
	for _, status := range result.Value {
		if status != nil && status.Message != nil {
			message = *status.Message
			break
		}
	}

	stdout, stderr := splitRunCommandMessage(message)
	status := platform.CommandSuccess
	if strings.TrimSpace(stderr) != "" {
		status = platform.CommandFailed
	}
	return platform.CommandResult{Status: status, Stdout: stdout, Stderr: stderr}
}

func splitRunCommandMessage(message string) (stdout, stderr string) {
	const (
		stdoutMarker = "[stdout]"
		stderrMarker = "[stderr]"
	)

	rest := message
	if i := strings.Index(rest, stdoutMarker); i >= 0 {
		rest = rest[i+len(stdoutMarker):]
	}
	if i := strings.Index(rest, stderrMarker); i >= 0 {
		return strings.TrimSpace(rest[:i]), strings.TrimSpace(rest[i+len(stderrMarker):])
	}
	return strings.TrimSpace(rest), ""
}

// InstanceStates implements platform.Provider. States are the instance
// view power state with the "PowerState/" prefix stripped, e.g. "running"
// or "deallocated".
func (c *Client) InstanceStates(ctx context.Context, vmNames []string) (map[string]string, error) {
	states := make(map[string]string, len(vmNames))
	for _, name := range vmNames {
		view, err := c.vms.InstanceView(ctx, c.resourceGroup, name, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to query instance view for %s: %w", name, err)
		}
		states[name] = powerState(view.VirtualMachineInstanceView)
	}
	return states, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func powerState(view armcompute.VirtualMachineInstanceView) string {
	const prefix = "PowerState/"
	for _, status := range view.Statuses {
		if status == nil || status.Code == nil {
			continue
		}
		if code := *status.Code; strings.HasPrefix(code, prefix) {
			return strings.TrimPrefix(code, prefix)
		}
	}
	return "unknown"
}

// StartInstances implements platform.Provider.
func (c *Client) StartInstances(ctx context.Context, vmNames []string) error {
	for _, name := range vmNames {
		poller, err := c.vms.BeginStart(ctx, c.resourceGroup, name, nil)
		if err != nil {
			return fmt.Errorf("failed to start %s: %w", name, err)
		}
		if _, err := poller.PollUntilDone(ctx, nil); err != nil {
			return fmt.Errorf("failed waiting for %s to start: %w", name, err)
		}
	}
	return nil
}

// StopInstances implements platform.Provider. VMs are deallocated rather
// than merely powered off so compute charges stop.
func (c *Client) StopInstances(ctx context.Context, vmNames []string) error {
	for _, name := range vmNames {
		poller, err := c.vms.BeginDeallocate(ctx, c.resourceGroup, name, nil)
		if err != nil {
			return fmt.Errorf("failed to deallocate %s: %w", name, err)
		}
		if _, err := poller.PollUntilDone(ctx, nil); err != nil {
			return fmt.Errorf("failed waiting for %s to deallocate: %w", name, err)
		}
	}
	return nil
}
