package provision

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deskforge/deskforge/internal/platform"
	"github.com/deskforge/deskforge/internal/util/retry"
)

const (
	// DefaultResultInterval is the pause between command result polls.
	DefaultResultInterval = 2 * time.Second
	// DefaultResultAttempts bounds the command result wait (~60s).
	DefaultResultAttempts = 30

	// adminAccount is the Windows account the credential is set on.
	adminAccount = "Administrator"
)

// DispatchError is a remote execution that reached a non-success terminal
// state. The captured output is kept for diagnostics.
type DispatchError struct {
	InstanceID string
	Status     platform.CommandStatus
	Stdout     string
	Stderr     string
}

func (e *DispatchError) Error() string {
	msg := fmt.Sprintf("credential dispatch on %s ended %s", e.InstanceID, e.Status)
	if detail := strings.TrimSpace(e.Stderr); detail != "" {
		msg += ": " + firstLine(detail)
	}
	return msg
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Dispatcher pushes a credential to a single instance and waits for the
// remote command to reach a terminal state.
type Dispatcher struct {
	provider    platform.Provider
	observer    Observer
	interval    time.Duration
	maxAttempts int
}

// NewDispatcher creates a credential dispatcher. Zero interval and
// attempts use the defaults; a nil observer discards progress output.
func NewDispatcher(provider platform.Provider, observer Observer, interval time.Duration, maxAttempts int) *Dispatcher {
	if interval <= 0 {
		interval = DefaultResultInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultResultAttempts
	}
	if observer == nil {
		observer = NopObserver{}
	}
	return &Dispatcher{provider: provider, observer: observer, interval: interval, maxAttempts: maxAttempts}
}

// Apply sets the administrator credential on one instance. It sends
// exactly one remote command and polls its result until terminal; the
// dispatch is never resent on failure, the caller decides whether to
// re-run the batch. A result query answering "invocation not yet
// registered" keeps polling, any other query error aborts this instance
// only.
func (d *Dispatcher) Apply(ctx context.Context, instanceID, credential string) error {
	commandID, err := d.provider.SendCommand(ctx, instanceID, credentialScript(credential))
	if err != nil {
		return fmt.Errorf("failed to dispatch credential to %s: %w", instanceID, err)
	}
	d.observer.Printf("credential command %s sent to %s", commandID, instanceID)

	var result platform.CommandResult
	err = retry.PollUntil(ctx, d.interval, d.maxAttempts, func(int) (bool, error) {
		r, err := d.provider.CommandResult(ctx, commandID, instanceID)
		if errors.Is(err, platform.ErrCommandNotRegistered) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		result = r
		return r.Status.Terminal(), nil
	})
	if err != nil {
		if errors.Is(err, retry.ErrTimeout) {
			return fmt.Errorf("command %s on %s did not complete in time", commandID, instanceID)
		}
		return fmt.Errorf("failed to read result of command %s on %s: %w", commandID, instanceID, err)
	}

	if result.Status != platform.CommandSuccess {
		return &DispatchError{
			InstanceID: instanceID,
			Status:     result.Status,
			Stdout:     result.Stdout,
			Stderr:     result.Stderr,
		}
	}
	return nil
}

// credentialScript builds the PowerShell script that sets the local
// administrator password and prints a verification line. Single quotes in
// the credential are doubled for the PowerShell single-quoted literal.
func credentialScript(credential string) []string {
	quoted := strings.ReplaceAll(credential, "'", "''")
	return []string{
		fmt.Sprintf("$password = ConvertTo-SecureString '%s' -AsPlainText -Force", quoted),
		fmt.Sprintf("Set-LocalUser -Name '%s' -Password $password", adminAccount),
		"Write-Host 'Password set successfully'",
		fmt.Sprintf("Get-LocalUser -Name '%s' | Select-Object Name, Enabled, PasswordLastSet | Format-List", adminAccount),
	}
}
