// Package tui provides a Bubble Tea dashboard for the credential
// provisioning flow. It is display-only: all state lives in the
// orchestrator and arrives as messages.
package tui

// PhaseMsg reports progress of one provisioning phase.
type PhaseMsg struct {
	Phase string
	// Detail is a short status line shown next to the phase.
	Detail string
	Done   bool
	Err    error
}

// InstanceMsg reports the per-instance outcome of the credential rollout.
type InstanceMsg struct {
	InstanceID string
	State      string // Applied, Failed, Skipped
	Reason     string
}

// TickMsg is sent periodically to animate the spinner.
type TickMsg struct{}

// ErrMsg carries a fatal error.
type ErrMsg struct{ Err error }

// DoneMsg signals that the operation is complete.
type DoneMsg struct{}
