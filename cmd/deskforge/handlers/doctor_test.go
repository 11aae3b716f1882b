package handlers

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskforge/deskforge/internal/config"
	"github.com/deskforge/deskforge/internal/platform"
	deskforgetesting "github.com/deskforge/deskforge/internal/testing"
	"github.com/deskforge/deskforge/internal/util/prerequisites"
)

// fakeDiagnosable is a provider with the optional probe surfaces doctor
// looks for.
type fakeDiagnosable struct {
	deskforgetesting.FakeProvider

	pingErr      error
	region       string
	regionCalled bool
}

func (f *fakeDiagnosable) Ping(context.Context) error { return f.pingErr }

func (f *fakeDiagnosable) Region() string {
	f.regionCalled = true
	return f.region
}

func TestDoctor(t *testing.T) {
	restoreCfg := swapLoadConfig(testAWSConfig())
	defer restoreCfg()

	origPrereqs := checkPrereqs
	origProvider := newProvider
	defer func() {
		checkPrereqs = origPrereqs
		newProvider = origProvider
	}()

	checkPrereqs = func(string) *prerequisites.CheckResults { return &prerequisites.CheckResults{} }
	provider := &fakeDiagnosable{region: "eu-west-1"}
	newProvider = func(context.Context, *config.Config) (platform.Provider, error) {
		return provider, nil
	}

	err := Doctor(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, provider.regionCalled, "doctor reports the region the client is bound to")
}

func TestDoctor_APIUnreachable(t *testing.T) {
	restoreCfg := swapLoadConfig(testAWSConfig())
	defer restoreCfg()

	origPrereqs := checkPrereqs
	origProvider := newProvider
	defer func() {
		checkPrereqs = origPrereqs
		newProvider = origProvider
	}()

	checkPrereqs = func(string) *prerequisites.CheckResults { return &prerequisites.CheckResults{} }
	newProvider = func(context.Context, *config.Config) (platform.Provider, error) {
		return &fakeDiagnosable{pingErr: fmt.Errorf("UnauthorizedOperation")}, nil
	}

	err := Doctor(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")
}
