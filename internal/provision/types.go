// Package provision implements the readiness and credential provisioning
// workflow: wait for freshly launched Windows instances to come online,
// generate one administrator password for the batch, push it to every
// ready instance over the provider's remote execution channel, and record
// the outcome.
package provision

import (
	"time"

	"github.com/deskforge/deskforge/internal/platform"
)

// ApplyState describes what happened to one instance during a batch.
type ApplyState string

const (
	// StateApplied means the credential was set and verified on the instance.
	StateApplied ApplyState = "Applied"
	// StateFailed means the dispatch reached the instance but ended in a
	// non-success terminal state, or the execution channel was unreachable.
	StateFailed ApplyState = "Failed"
	// StateSkipped means the instance never reported ready, so no dispatch
	// was attempted.
	StateSkipped ApplyState = "Skipped"
)

// BatchResult is the outcome of one provisioning batch. Every requested
// instance appears in PerInstance exactly once.
type BatchResult struct {
	// BatchID identifies this run in logs and the credential record.
	BatchID string
	// Credential is the shared administrator password, empty when no
	// instance was ready and none was generated.
	Credential string
	// GeneratedAt is when the credential was generated.
	GeneratedAt time.Time
	// PerInstance maps instance ID to its final state.
	PerInstance map[string]ApplyState
	// Failures holds the short failure reason for instances in StateFailed.
	Failures map[string]string
}

// Applied reports whether the credential was applied to the given instance.
func (r BatchResult) Applied(instanceID string) bool {
	return r.PerInstance[instanceID] == StateApplied
}

// RecordWriter persists the batch outcome to the durable credential record.
type RecordWriter interface {
	WriteRecord(result BatchResult, instances []platform.Instance) error
}

// DescriptorWriter emits a remote-desktop connection descriptor for one
// instance. Credential is empty for instances the password was not applied
// to, which makes the consuming client prompt instead.
type DescriptorWriter interface {
	WriteDescriptor(instance platform.Instance, username, credential string) (string, error)
}
