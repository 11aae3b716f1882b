package aws

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/require"

	"github.com/deskforge/deskforge/internal/platform"
)

type fakeEC2 struct {
	EC2API

	describeInstances     func(*ec2.DescribeInstancesInput) (*ec2.DescribeInstancesOutput, error)
	describeInstanceTypes func(*ec2.DescribeInstanceTypesInput) (*ec2.DescribeInstanceTypesOutput, error)
	getPasswordData       func(*ec2.GetPasswordDataInput) (*ec2.GetPasswordDataOutput, error)
}

func (f *fakeEC2) DescribeInstances(_ context.Context, params *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	return f.describeInstances(params)
}

func (f *fakeEC2) DescribeInstanceTypes(_ context.Context, params *ec2.DescribeInstanceTypesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstanceTypesOutput, error) {
	return f.describeInstanceTypes(params)
}

func (f *fakeEC2) GetPasswordData(_ context.Context, params *ec2.GetPasswordDataInput, _ ...func(*ec2.Options)) (*ec2.GetPasswordDataOutput, error) {
	return f.getPasswordData(params)
}

type fakeSSM struct {
	describeInstanceInfo func(*ssm.DescribeInstanceInformationInput) (*ssm.DescribeInstanceInformationOutput, error)
	sendCommand          func(*ssm.SendCommandInput) (*ssm.SendCommandOutput, error)
	getCommandInvocation func(*ssm.GetCommandInvocationInput) (*ssm.GetCommandInvocationOutput, error)
}

func (f *fakeSSM) DescribeInstanceInformation(_ context.Context, params *ssm.DescribeInstanceInformationInput, _ ...func(*ssm.Options)) (*ssm.DescribeInstanceInformationOutput, error) {
	return f.describeInstanceInfo(params)
}

func (f *fakeSSM) SendCommand(_ context.Context, params *ssm.SendCommandInput, _ ...func(*ssm.Options)) (*ssm.SendCommandOutput, error) {
	return f.sendCommand(params)
}

func (f *fakeSSM) GetCommandInvocation(_ context.Context, params *ssm.GetCommandInvocationInput, _ ...func(*ssm.Options)) (*ssm.GetCommandInvocationOutput, error) {
	return f.getCommandInvocation(params)
}

func TestAgentStatusOnline(t *testing.T) {
	t.Parallel()

	client := &Client{ssm: &fakeSSM{
		describeInstanceInfo: func(params *ssm.DescribeInstanceInformationInput) (*ssm.DescribeInstanceInformationOutput, error) {
			require.Len(t, params.Filters, 1)
			require.Equal(t, []string{"i-abc123"}, params.Filters[0].Values)
			return &ssm.DescribeInstanceInformationOutput{
				InstanceInformationList: []ssmtypes.InstanceInformation{
					{PingStatus: ssmtypes.PingStatusOnline},
				},
			}, nil
		},
	}}

	status, err := client.AgentStatus(context.Background(), "i-abc123")
	require.NoError(t, err)
	require.True(t, status.Online)
	require.Equal(t, "Online", status.Raw)
}

func TestAgentStatusNotRegistered(t *testing.T) {
	t.Parallel()

	client := &Client{ssm: &fakeSSM{
		describeInstanceInfo: func(*ssm.DescribeInstanceInformationInput) (*ssm.DescribeInstanceInformationOutput, error) {
			return &ssm.DescribeInstanceInformationOutput{}, nil
		},
	}}

	status, err := client.AgentStatus(context.Background(), "i-abc123")
	require.NoError(t, err)
	require.False(t, status.Online)
	require.Equal(t, "NotRegistered", status.Raw)
}

func TestSendCommandUsesPowerShellDocument(t *testing.T) {
	t.Parallel()

	client := &Client{ssm: &fakeSSM{
		sendCommand: func(params *ssm.SendCommandInput) (*ssm.SendCommandOutput, error) {
			require.Equal(t, runPowerShellDocument, awssdk.ToString(params.DocumentName))
			require.Equal(t, []string{"i-abc123"}, params.InstanceIds)
			require.Equal(t, []string{"Write-Host hi"}, params.Parameters["commands"])
			return &ssm.SendCommandOutput{
				Command: &ssmtypes.Command{CommandId: awssdk.String("cmd-1")},
			}, nil
		},
	}}

	id, err := client.SendCommand(context.Background(), "i-abc123", []string{"Write-Host hi"})
	require.NoError(t, err)
	require.Equal(t, "cmd-1", id)
}

func TestCommandResultNotYetRegistered(t *testing.T) {
	t.Parallel()

	client := &Client{ssm: &fakeSSM{
		getCommandInvocation: func(*ssm.GetCommandInvocationInput) (*ssm.GetCommandInvocationOutput, error) {
			return nil, &ssmtypes.InvocationDoesNotExist{}
		},
	}}

	_, err := client.CommandResult(context.Background(), "cmd-1", "i-abc123")
	require.ErrorIs(t, err, platform.ErrCommandNotRegistered)
}

func TestCommandResultSuccess(t *testing.T) {
	t.Parallel()

	client := &Client{ssm: &fakeSSM{
		getCommandInvocation: func(params *ssm.GetCommandInvocationInput) (*ssm.GetCommandInvocationOutput, error) {
			require.Equal(t, "cmd-1", awssdk.ToString(params.CommandId))
			return &ssm.GetCommandInvocationOutput{
				Status:                ssmtypes.CommandInvocationStatusSuccess,
				StandardOutputContent: awssdk.String("Password set successfully"),
				StandardErrorContent:  awssdk.String(""),
			}, nil
		},
	}}

	result, err := client.CommandResult(context.Background(), "cmd-1", "i-abc123")
	require.NoError(t, err)
	require.Equal(t, platform.CommandSuccess, result.Status)
	require.True(t, result.Status.Terminal())
	require.Equal(t, "Password set successfully", result.Stdout)
}

func TestCommandStatusMapping(t *testing.T) {
	t.Parallel()

	cases := map[ssmtypes.CommandInvocationStatus]platform.CommandStatus{
		ssmtypes.CommandInvocationStatusPending:    platform.CommandPending,
		ssmtypes.CommandInvocationStatusInProgress: platform.CommandInProgress,
		ssmtypes.CommandInvocationStatusDelayed:    platform.CommandDelayed,
		ssmtypes.CommandInvocationStatusSuccess:    platform.CommandSuccess,
		ssmtypes.CommandInvocationStatusCancelled:  platform.CommandCancelled,
		ssmtypes.CommandInvocationStatusTimedOut:   platform.CommandTimedOut,
		ssmtypes.CommandInvocationStatusFailed:     platform.CommandFailed,
	}
	for in, want := range cases {
		require.Equal(t, want, commandStatus(in))
	}
}

func TestInstanceStates(t *testing.T) {
	t.Parallel()

	client := &Client{ec2: &fakeEC2{
		describeInstances: func(params *ec2.DescribeInstancesInput) (*ec2.DescribeInstancesOutput, error) {
			require.ElementsMatch(t, []string{"i-1", "i-2"}, params.InstanceIds)
			return &ec2.DescribeInstancesOutput{
				Reservations: []ec2types.Reservation{
					{Instances: []ec2types.Instance{
						{
							InstanceId: awssdk.String("i-1"),
							State:      &ec2types.InstanceState{Name: ec2types.InstanceStateNameRunning},
						},
						{
							InstanceId: awssdk.String("i-2"),
							State:      &ec2types.InstanceState{Name: ec2types.InstanceStateNameStopped},
						},
					}},
				},
			}, nil
		},
	}}

	states, err := client.InstanceStates(context.Background(), []string{"i-1", "i-2"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"i-1": "running", "i-2": "stopped"}, states)
}

func TestInstanceStatesEmptyInput(t *testing.T) {
	t.Parallel()

	client := &Client{}
	states, err := client.InstanceStates(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, states)
}

func TestFetchGPUInstanceTypesFallsBack(t *testing.T) {
	orig := catalogRetryDelay
	catalogRetryDelay = time.Millisecond
	t.Cleanup(func() { catalogRetryDelay = orig })

	client := &Client{region: "us-east-1", ec2: &fakeEC2{
		describeInstanceTypes: func(*ec2.DescribeInstanceTypesInput) (*ec2.DescribeInstanceTypesOutput, error) {
			return nil, errors.New("throttled")
		},
	}}

	types := client.FetchGPUInstanceTypes(context.Background(), "")
	require.Equal(t, FallbackGPUInstanceTypes(), types)
}

func TestFetchGPUInstanceTypesCachesResults(t *testing.T) {
	t.Parallel()

	cachePath := filepath.Join(t.TempDir(), "gpu-types.json")
	calls := 0
	client := &Client{region: "us-east-1", ec2: &fakeEC2{
		describeInstanceTypes: func(params *ec2.DescribeInstanceTypesInput) (*ec2.DescribeInstanceTypesOutput, error) {
			calls++
			require.Len(t, params.Filters, 1)
			require.Equal(t, []string{"g*"}, params.Filters[0].Values)
			return &ec2.DescribeInstanceTypesOutput{
				InstanceTypes: []ec2types.InstanceTypeInfo{
					{
						InstanceType: ec2types.InstanceType("g4dn.xlarge"),
						VCpuInfo:     &ec2types.VCpuInfo{DefaultVCpus: awssdk.Int32(4)},
						MemoryInfo:   &ec2types.MemoryInfo{SizeInMiB: awssdk.Int64(16384)},
						GpuInfo: &ec2types.GpuInfo{
							Gpus: []ec2types.GpuDeviceInfo{{
								Name:         awssdk.String("T4"),
								Manufacturer: awssdk.String("NVIDIA"),
								Count:        awssdk.Int32(1),
								MemoryInfo:   &ec2types.GpuDeviceMemoryInfo{SizeInMiB: awssdk.Int32(16384)},
							}},
						},
					},
				},
			}, nil
		},
	}}

	first := client.FetchGPUInstanceTypes(context.Background(), cachePath)
	require.Len(t, first, 1)
	require.Equal(t, "g4dn.xlarge", first[0].Type)
	require.Equal(t, int32(4), first[0].VCPUs)
	require.Equal(t, int64(16), first[0].MemoryGB)
	require.Equal(t, int32(16), first[0].GPUMemoryGB)

	second := client.FetchGPUInstanceTypes(context.Background(), cachePath)
	require.Equal(t, first, second)
	require.Equal(t, 1, calls, "second call should be served from cache")
}

func TestCatalogCacheExpires(t *testing.T) {
	t.Parallel()

	cachePath := filepath.Join(t.TempDir(), "gpu-types.json")
	saveCatalogCache(cachePath, "us-east-1", FallbackGPUInstanceTypes())

	require.NotNil(t, loadCatalogCache(cachePath, "us-east-1"))
	require.Nil(t, loadCatalogCache(cachePath, "eu-west-1"), "cache is region scoped")

	stale := catalogCache{
		FetchedAt: time.Now().Add(-8 * 24 * time.Hour),
		Region:    "us-east-1",
		Types:     FallbackGPUInstanceTypes(),
	}
	data, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cachePath, data, 0o600))
	require.Nil(t, loadCatalogCache(cachePath, "us-east-1"))
}

func TestGPUInstanceTypeLabel(t *testing.T) {
	t.Parallel()

	g := GPUInstanceType{Type: "g5.xlarge", VCPUs: 4, MemoryGB: 16, GPUCount: 1, GPUName: "A10G", GPUMemoryGB: 24}
	require.Equal(t, "g5.xlarge - 4 vCPU, 16 GB RAM, 1x A10G (24 GB)", g.Label())
}
