package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskforge/deskforge/internal/config"
)

func TestDestroy(t *testing.T) {
	restoreCfg := swapLoadConfig(testAWSConfig())
	defer restoreCfg()

	runner := &stubRunner{}
	restoreRunner := swapRunner(runner)
	defer restoreRunner()

	origVarFile := writeVarFile
	defer func() { writeVarFile = origVarFile }()
	writeVarFile = func(*config.Config) (string, error) { return "terraform/aws/deskforge.tfvars", nil }

	err := Destroy(context.Background(), "", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"destroy deskforge.tfvars"}, runner.calls)
}

func TestDestroy_Canceled(t *testing.T) {
	restoreCfg := swapLoadConfig(testAWSConfig())
	defer restoreCfg()

	runner := &stubRunner{}
	restoreRunner := swapRunner(runner)
	defer restoreRunner()

	origConfirm := confirm
	defer func() { confirm = origConfirm }()
	confirm = func(string) (bool, error) { return false, nil }

	err := Destroy(context.Background(), "", false)
	require.NoError(t, err)
	assert.Empty(t, runner.calls, "canceled destroy must not run terraform")
}
