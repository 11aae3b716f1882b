package provision

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/deskforge/deskforge/internal/platform"
)

// Orchestrator runs a full credential provisioning batch: readiness wait,
// shared credential generation, sequential dispatch, credential record and
// connection descriptors. One orchestrator run owns the record file and
// the descriptor directory; batches must not run concurrently against the
// same instances.
type Orchestrator struct {
	poller      *Poller
	dispatcher  *Dispatcher
	observer    Observer
	record      RecordWriter
	descriptors DescriptorWriter

	// Username is embedded in descriptors for applied instances.
	Username string
	// ReadyTimeout bounds the readiness wait; zero means DefaultReadyTimeout.
	ReadyTimeout time.Duration
}

// NewOrchestrator wires a batch orchestrator. record and descriptors may
// be nil to skip the respective side effect (used by tests and by the
// status flow, which only needs the in-memory result).
func NewOrchestrator(provider platform.Provider, observer Observer, record RecordWriter, descriptors DescriptorWriter) *Orchestrator {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Orchestrator{
		poller:      NewPoller(provider, observer, 0),
		dispatcher:  NewDispatcher(provider, observer, 0, 0),
		observer:    observer,
		record:      record,
		descriptors: descriptors,
		Username:    adminAccount,
	}
}

// SetIntervals overrides the polling cadence, for tests and for callers
// that know their agents settle faster.
func (o *Orchestrator) SetIntervals(readyInterval, resultInterval time.Duration, resultAttempts int) {
	o.poller.interval = readyInterval
	o.dispatcher.interval = resultInterval
	if resultAttempts > 0 {
		o.dispatcher.maxAttempts = resultAttempts
	}
}

// ProvisionCredentials provisions one shared administrator credential
// across the given instances. Instances that never report ready are
// Skipped; a dispatch failure marks only that instance Failed and the
// batch continues. When no instance is ready, no credential is generated
// and no record is written. The returned result enumerates every
// requested instance.
//
// The same password is deliberately shared across the batch so an
// operator has one credential per rollout; per-instance isolation is a
// documented non-feature.
func (o *Orchestrator) ProvisionCredentials(ctx context.Context, instances []platform.Instance) (BatchResult, error) {
	result := BatchResult{
		BatchID:     uuid.NewString(),
		PerInstance: make(map[string]ApplyState, len(instances)),
		Failures:    make(map[string]string),
	}
	if len(instances) == 0 {
		return result, nil
	}

	ids := make([]string, len(instances))
	for i, inst := range instances {
		ids[i] = inst.ID
	}

	ready := o.poller.WaitForReady(ctx, ids, o.ReadyTimeout)

	readyCount := 0
	for _, ok := range ready {
		if ok {
			readyCount++
		}
	}
	if readyCount == 0 {
		for _, id := range ids {
			result.PerInstance[id] = StateSkipped
		}
		o.observer.Printf("no instance became ready, skipping credential provisioning")
		return result, nil
	}

	credential, err := GeneratePassword(DefaultPasswordLength)
	if err != nil {
		return result, err
	}
	result.Credential = credential
	result.GeneratedAt = time.Now()

	for i, inst := range instances {
		if !ready[inst.ID] {
			result.PerInstance[inst.ID] = StateSkipped
			continue
		}
		o.observer.Progress("credentials", i+1, len(instances))
		if err := o.dispatcher.Apply(ctx, inst.ID, credential); err != nil {
			result.PerInstance[inst.ID] = StateFailed
			result.Failures[inst.ID] = err.Error()
			o.observer.Printf("credential dispatch failed for %s: %v", inst.ID, err)
			continue
		}
		result.PerInstance[inst.ID] = StateApplied
	}

	if o.record != nil {
		if err := o.record.WriteRecord(result, instances); err != nil {
			return result, err
		}
	}
	if o.descriptors != nil {
		if err := o.writeDescriptors(result, instances); err != nil {
			return result, err
		}
	}
	return result, nil
}

// writeDescriptors regenerates connection descriptors for all instances
// with a known IP. The credential is embedded only where it was applied;
// everywhere else the descriptor omits it so the client prompts.
func (o *Orchestrator) writeDescriptors(result BatchResult, instances []platform.Instance) error {
	for _, inst := range instances {
		if inst.PublicIP == "" {
			continue
		}
		credential := ""
		if result.Applied(inst.ID) {
			credential = result.Credential
		}
		path, err := o.descriptors.WriteDescriptor(inst, o.Username, credential)
		if err != nil {
			return err
		}
		o.observer.Printf("wrote connection descriptor %s", path)
	}
	return nil
}
