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

func TestStop(t *testing.T) {
	restoreCfg := swapLoadConfig(testAWSConfig())
	defer restoreCfg()

	instances := []platform.Instance{
		{ID: "i-1", Name: "deskforge-1"},
		{ID: "i-2", Name: "deskforge-2"},
	}
	runner := &stubRunner{outputs: stackOutputs(instances)}
	restoreRunner := swapRunner(runner)
	defer restoreRunner()

	origProvider := newProvider
	defer func() { newProvider = origProvider }()
	fake := &deskforgetesting.FakeProvider{}
	newProvider = func(context.Context, *config.Config) (platform.Provider, error) {
		return fake, nil
	}

	err := Stop(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"i-1", "i-2"}, fake.StoppedIDs)
}

func TestStart(t *testing.T) {
	restoreCfg := swapLoadConfig(testAWSConfig())
	defer restoreCfg()

	// Outputs without public IPs: descriptor refresh then writes nothing.
	instances := []platform.Instance{{ID: "i-1", Name: "deskforge-1"}}
	runner := &stubRunner{outputs: stackOutputs(instances)}
	restoreRunner := swapRunner(runner)
	defer restoreRunner()

	origProvider := newProvider
	defer func() { newProvider = origProvider }()
	fake := &deskforgetesting.FakeProvider{}
	newProvider = func(context.Context, *config.Config) (platform.Provider, error) {
		return fake, nil
	}

	err := Start(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"i-1"}, fake.StartedIDs)
	// Outputs are read twice: once for the instance list, once after the
	// start to pick up refreshed IPs.
	assert.Equal(t, []string{"output", "output"}, runner.calls)
}
