package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskforge/deskforge/internal/config"
	"github.com/deskforge/deskforge/internal/platform"
	deskforgetesting "github.com/deskforge/deskforge/internal/testing"
)

func TestStatus(t *testing.T) {
	restoreCfg := swapLoadConfig(testAWSConfig())
	defer restoreCfg()

	// No public IP so the desktop probe is skipped.
	instances := []platform.Instance{{ID: "i-1", Name: "deskforge-1"}}
	runner := &stubRunner{outputs: stackOutputs(instances)}
	restoreRunner := swapRunner(runner)
	defer restoreRunner()

	origProvider := newProvider
	defer func() { newProvider = origProvider }()
	fake := &deskforgetesting.FakeProvider{
		States: map[string]string{"i-1": "running"},
		AgentStatuses: map[string][]platform.AgentStatus{
			"i-1": {deskforgetesting.Online()},
		},
	}
	newProvider = func(context.Context, *config.Config) (platform.Provider, error) {
		return fake, nil
	}

	err := Status(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"output"}, runner.calls)
}

func TestStatus_EmptyFleet(t *testing.T) {
	restoreCfg := swapLoadConfig(testAWSConfig())
	defer restoreCfg()

	runner := &stubRunner{outputs: stackOutputs(nil)}
	restoreRunner := swapRunner(runner)
	defer restoreRunner()

	err := Status(context.Background(), "")
	require.NoError(t, err, "an empty fleet is not an error for status")
}
