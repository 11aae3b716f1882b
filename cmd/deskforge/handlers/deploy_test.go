package handlers

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskforge/deskforge/internal/config"
	"github.com/deskforge/deskforge/internal/platform"
	"github.com/deskforge/deskforge/internal/provision"
	deskforgetesting "github.com/deskforge/deskforge/internal/testing"
	"github.com/deskforge/deskforge/internal/util/prerequisites"
)

func TestDeploy(t *testing.T) {
	restoreCfg := swapLoadConfig(testAWSConfig())
	defer restoreCfg()

	instances := []platform.Instance{
		{ID: "i-1", Name: "deskforge-1", PublicIP: "203.0.113.10"},
		{ID: "i-2", Name: "deskforge-2", PublicIP: "203.0.113.11"},
	}
	runner := &stubRunner{outputs: stackOutputs(instances)}
	restoreRunner := swapRunner(runner)
	defer restoreRunner()

	origVarFile := writeVarFile
	origPrereqs := checkPrereqs
	origProvider := newProvider
	origFleet := provisionFleet
	defer func() {
		writeVarFile = origVarFile
		checkPrereqs = origPrereqs
		newProvider = origProvider
		provisionFleet = origFleet
	}()

	writeVarFile = func(*config.Config) (string, error) { return "terraform/aws/deskforge.tfvars", nil }
	checkPrereqs = func(string) *prerequisites.CheckResults { return &prerequisites.CheckResults{} }
	newProvider = func(context.Context, *config.Config) (platform.Provider, error) {
		return &deskforgetesting.FakeProvider{}, nil
	}

	var fleetInstances []platform.Instance
	provisionFleet = func(_ context.Context, _ *config.Config, _ platform.Provider, instances []platform.Instance, _ io.Writer) (provision.BatchResult, error) {
		fleetInstances = instances
		return provision.BatchResult{
			Credential: "Xy1!aaaaaaaaaaaa",
			PerInstance: map[string]provision.ApplyState{
				"i-1": provision.StateApplied,
				"i-2": provision.StateApplied,
			},
		}, nil
	}

	err := Deploy(context.Background(), "", true)
	require.NoError(t, err)

	assert.Equal(t, []string{"init", "validate", "plan deskforge.tfvars", "apply deskforge.tfvars", "output"}, runner.calls)
	require.Len(t, fleetInstances, 2)
	assert.Equal(t, "i-1", fleetInstances[0].ID)
}

func TestDeploy_MissingPrerequisites(t *testing.T) {
	restoreCfg := swapLoadConfig(testAWSConfig())
	defer restoreCfg()

	runner := &stubRunner{}
	restoreRunner := swapRunner(runner)
	defer restoreRunner()

	origPrereqs := checkPrereqs
	defer func() { checkPrereqs = origPrereqs }()
	checkPrereqs = func(string) *prerequisites.CheckResults {
		return &prerequisites.CheckResults{
			Missing: []prerequisites.Tool{{Name: "terraform", Required: true, InstallURL: "https://terraform.io"}},
		}
	}

	err := Deploy(context.Background(), "", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terraform")
	assert.Empty(t, runner.calls)
}

func TestDeploy_NoInstancesInOutputs(t *testing.T) {
	restoreCfg := swapLoadConfig(testAWSConfig())
	defer restoreCfg()

	runner := &stubRunner{outputs: stackOutputs(nil)}
	restoreRunner := swapRunner(runner)
	defer restoreRunner()

	origVarFile := writeVarFile
	origPrereqs := checkPrereqs
	defer func() {
		writeVarFile = origVarFile
		checkPrereqs = origPrereqs
	}()
	writeVarFile = func(*config.Config) (string, error) { return "terraform/aws/deskforge.tfvars", nil }
	checkPrereqs = func(string) *prerequisites.CheckResults { return &prerequisites.CheckResults{} }

	err := Deploy(context.Background(), "", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no instances")
}
