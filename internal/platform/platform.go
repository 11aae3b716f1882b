// Package platform defines the provider capability interface that the
// provisioning workflow is written against.
//
// Both supported providers (AWS EC2 with the SSM agent, Azure VM with the
// Azure VM agent) expose the same small surface: query the management
// agent's liveness, dispatch a remote PowerShell script, poll its result,
// and start/stop instances. Instance discovery is not part of this
// interface; instance identifiers and IP addresses come from the
// provisioning backend's outputs.
package platform

import (
	"context"
	"errors"
)

// Instance is one provisioned virtual machine as reported by the
// provisioning backend. The IP addresses may be empty until boot completes
// and may change across stop/start cycles.
type Instance struct {
	ID        string
	Name      string
	PublicIP  string
	PrivateIP string
}

// AgentStatus is the liveness state of the management agent inside a VM.
// Raw carries the provider-defined status string for display; Online is the
// normalized readiness signal. Every non-online status is treated uniformly
// as "not ready".
type AgentStatus struct {
	Raw    string
	Online bool
}

// CommandStatus is the lifecycle state of a dispatched remote command.
type CommandStatus string

// Remote command states. Success, Failed, Cancelled and TimedOut are
// terminal; the rest mean the command is still in flight.
const (
	CommandPending    CommandStatus = "Pending"
	CommandInProgress CommandStatus = "InProgress"
	CommandDelayed    CommandStatus = "Delayed"
	CommandSuccess    CommandStatus = "Success"
	CommandFailed     CommandStatus = "Failed"
	CommandCancelled  CommandStatus = "Cancelled"
	CommandTimedOut   CommandStatus = "TimedOut"
)

// Terminal reports whether no further transition can occur for this status.
func (s CommandStatus) Terminal() bool {
	switch s {
	case CommandSuccess, CommandFailed, CommandCancelled, CommandTimedOut:
		return true
	default:
		return false
	}
}

// CommandResult is the polled outcome of a remote command invocation.
type CommandResult struct {
	Status CommandStatus
	Stdout string
	Stderr string
}

// ErrCommandNotRegistered is returned by CommandResult while the execution
// channel has accepted a dispatch but not yet registered the invocation.
// Callers keep polling instead of treating this as a failure.
var ErrCommandNotRegistered = errors.New("command invocation not yet registered")

// Provider is the management-plane capability surface of one cloud
// provider. Implementations are constructed once per session and passed by
// reference into the orchestration layer.
type Provider interface {
	// Name returns the provider identifier ("aws" or "azure").
	Name() string

	// AgentStatus queries the management agent's liveness for one instance.
	AgentStatus(ctx context.Context, instanceID string) (AgentStatus, error)

	// SendCommand dispatches a PowerShell script to one instance and
	// returns an identifier for polling the result.
	SendCommand(ctx context.Context, instanceID string, script []string) (string, error)

	// CommandResult polls the outcome of a previously dispatched command.
	// Returns ErrCommandNotRegistered while the invocation is not yet
	// visible to the result API.
	CommandResult(ctx context.Context, commandID, instanceID string) (CommandResult, error)

	// InstanceStates returns the provider-reported power state for each
	// requested instance (e.g. "running", "stopped").
	InstanceStates(ctx context.Context, instanceIDs []string) (map[string]string, error)

	// StartInstances starts the given instances and blocks until they are
	// running.
	StartInstances(ctx context.Context, instanceIDs []string) error

	// StopInstances stops the given instances and blocks until they have
	// stopped.
	StopInstances(ctx context.Context, instanceIDs []string) error
}
