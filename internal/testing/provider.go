package testing

import (
	"context"
	"fmt"
	"sync"

	"github.com/deskforge/deskforge/internal/platform"
)

// FakeProvider is a scripted platform.Provider for tests. Agent statuses
// are consumed round by round, and command results attempt by attempt, so
// tests can model agents coming online over time and commands completing
// asynchronously.
type FakeProvider struct {
	mu sync.Mutex

	// AgentStatuses maps instance ID to the sequence of statuses returned
	// by successive AgentStatus calls; the last entry repeats forever.
	AgentStatuses map[string][]platform.AgentStatus
	// AgentErrs maps instance ID to errors returned before any status; an
	// entry is consumed per call.
	AgentErrs map[string][]error

	// SendErr, when set, fails every SendCommand call.
	SendErr error
	// CommandResults maps instance ID to the sequence of results returned
	// by successive CommandResult calls; the last entry repeats forever.
	CommandResults map[string][]platform.CommandResult
	// CommandErrs maps instance ID to errors returned before any result.
	CommandErrs map[string][]error

	// States is returned verbatim from InstanceStates.
	States map[string]string

	SentCommands   []SentCommand
	StartedIDs     []string
	StoppedIDs     []string
	agentCalls     map[string]int
	resultCalls    map[string]int
	nextCommandSeq int
}

// SentCommand records one SendCommand call.
type SentCommand struct {
	InstanceID string
	Script     []string
}

var _ platform.Provider = (*FakeProvider)(nil)

func (f *FakeProvider) Name() string { return "fake" }

func (f *FakeProvider) AgentStatus(_ context.Context, instanceID string) (platform.AgentStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if errs := f.AgentErrs[instanceID]; len(errs) > 0 {
		err := errs[0]
		f.AgentErrs[instanceID] = errs[1:]
		return platform.AgentStatus{}, err
	}

	statuses := f.AgentStatuses[instanceID]
	if len(statuses) == 0 {
		return platform.AgentStatus{Raw: "NotRegistered"}, nil
	}
	if f.agentCalls == nil {
		f.agentCalls = make(map[string]int)
	}
	i := f.agentCalls[instanceID]
	f.agentCalls[instanceID]++
	if i >= len(statuses) {
		i = len(statuses) - 1
	}
	return statuses[i], nil
}

func (f *FakeProvider) SendCommand(_ context.Context, instanceID string, script []string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.SendErr != nil {
		return "", f.SendErr
	}
	f.SentCommands = append(f.SentCommands, SentCommand{InstanceID: instanceID, Script: script})
	f.nextCommandSeq++
	return fmt.Sprintf("cmd-%d", f.nextCommandSeq), nil
}

func (f *FakeProvider) CommandResult(_ context.Context, _ string, instanceID string) (platform.CommandResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if errs := f.CommandErrs[instanceID]; len(errs) > 0 {
		err := errs[0]
		f.CommandErrs[instanceID] = errs[1:]
		return platform.CommandResult{}, err
	}

	results := f.CommandResults[instanceID]
	if len(results) == 0 {
		return platform.CommandResult{Status: platform.CommandSuccess}, nil
	}
	if f.resultCalls == nil {
		f.resultCalls = make(map[string]int)
	}
	i := f.resultCalls[instanceID]
	f.resultCalls[instanceID]++
	if i >= len(results) {
		i = len(results) - 1
	}
	return results[i], nil
}

func (f *FakeProvider) InstanceStates(_ context.Context, instanceIDs []string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	states := make(map[string]string, len(instanceIDs))
	for _, id := range instanceIDs {
		if s, ok := f.States[id]; ok {
			states[id] = s
		}
	}
	return states, nil
}

func (f *FakeProvider) StartInstances(_ context.Context, instanceIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StartedIDs = append(f.StartedIDs, instanceIDs...)
	return nil
}

func (f *FakeProvider) StopInstances(_ context.Context, instanceIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StoppedIDs = append(f.StoppedIDs, instanceIDs...)
	return nil
}

// AgentCalls reports how many times AgentStatus was called for one
// instance.
func (f *FakeProvider) AgentCalls(instanceID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.agentCalls[instanceID]
}

// Online is shorthand for a ready agent status.
func Online() platform.AgentStatus {
	return platform.AgentStatus{Raw: "Online", Online: true}
}

// Offline is shorthand for a not-yet-ready agent status.
func Offline() platform.AgentStatus {
	return platform.AgentStatus{Raw: "ConnectionLost"}
}
