package provision

import (
	"context"
	"time"

	"github.com/deskforge/deskforge/internal/platform"
	"github.com/deskforge/deskforge/internal/util/retry"
)

const (
	// DefaultPollInterval is the pause between readiness rounds.
	DefaultPollInterval = 30 * time.Second
	// DefaultReadyTimeout bounds the whole readiness wait. Windows AMIs
	// routinely take ten minutes to finish first boot and register their
	// management agent.
	DefaultReadyTimeout = 15 * time.Minute
)

// Poller waits for instances to report their management agent online.
type Poller struct {
	provider platform.Provider
	observer Observer
	interval time.Duration
}

// NewPoller creates a readiness poller. A zero interval uses
// DefaultPollInterval; a nil observer discards progress output.
func NewPoller(provider platform.Provider, observer Observer, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if observer == nil {
		observer = NopObserver{}
	}
	return &Poller{provider: provider, observer: observer, interval: interval}
}

// WaitForReady polls the agent status of every instance until all are
// online or the timeout elapses, and returns a map holding every input ID.
// Readiness is monotonic: once an instance reports online it stays ready
// for the remainder of the call even if later rounds fail. Individual
// status query errors count as not-ready for that round and never abort
// the wait.
func (p *Poller) WaitForReady(ctx context.Context, instanceIDs []string, timeout time.Duration) map[string]bool {
	ready := make(map[string]bool, len(instanceIDs))
	for _, id := range instanceIDs {
		ready[id] = false
	}
	if len(instanceIDs) == 0 {
		return ready
	}

	if timeout <= 0 {
		timeout = DefaultReadyTimeout
	}
	rounds := int(timeout / p.interval)
	if rounds < 1 {
		rounds = 1
	}

	p.observer.Printf("waiting for %d instance(s) to come online (timeout %s)", len(instanceIDs), timeout)

	// Timeout and cancellation both fall through to the partial map.
	_ = retry.PollUntil(ctx, p.interval, rounds, func(round int) (bool, error) {
		online := 0
		for _, id := range instanceIDs {
			if ready[id] {
				online++
				continue
			}
			status, err := p.provider.AgentStatus(ctx, id)
			if err != nil {
				p.observer.Printf("status query for %s failed, treating as not ready: %v", id, err)
				continue
			}
			if status.Online {
				ready[id] = true
				online++
				p.observer.Printf("instance %s is online", id)
			}
		}
		p.observer.Progress("readiness", online, len(instanceIDs))
		return online == len(instanceIDs), nil
	})

	return ready
}
