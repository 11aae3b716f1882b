// Package aws implements the provider capability interface on AWS EC2,
// using the Systems Manager agent as the readiness signal and SSM Run
// Command as the remote execution channel.
package aws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/smithy-go"

	"github.com/deskforge/deskforge/internal/platform"
)

// runPowerShellDocument is the managed SSM document used for all remote
// PowerShell dispatches.
const runPowerShellDocument = "AWS-RunPowerShellScript"

// stateChangeTimeout bounds the start/stop waiters. Windows instances with
// large EBS volumes can take several minutes to settle.
const stateChangeTimeout = 10 * time.Minute

// Client implements platform.Provider against EC2 and SSM. Construct it
// once per session with NewClient and pass it down; it holds no mutable
// state beyond the SDK clients.
type Client struct {
	ec2    EC2API
	ssm    SSMAPI
	region string
}

var _ platform.Provider = (*Client)(nil)

// NewClient creates an AWS provider client for the given region. When
// accessKey is empty the SDK's default credential chain is used (profile,
// environment, instance role).
func NewClient(ctx context.Context, region, accessKey, secretKey string) (*Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Client{
		ec2:    ec2.NewFromConfig(cfg),
		ssm:    ssm.NewFromConfig(cfg),
		region: region,
	}, nil
}

// Name implements platform.Provider.
func (c *Client) Name() string { return "aws" }

// Region returns the region this client was constructed for.
func (c *Client) Region() string { return c.region }

// Ping verifies credentials with a cheap read-only call. API errors are
// reduced to their service error code so the doctor output stays
// readable.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.ec2.DescribeRegions(ctx, &ec2.DescribeRegionsInput{}); err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("AWS credential check failed: %s: %s", apiErr.ErrorCode(), apiErr.ErrorMessage())
		}
		return fmt.Errorf("AWS credential check failed: %w", err)
	}
	return nil
}

// AgentStatus implements platform.Provider. An instance that has not yet
// registered with SSM reports "NotRegistered"; only PingStatus Online
// counts as ready.
func (c *Client) AgentStatus(ctx context.Context, instanceID string) (platform.AgentStatus, error) {
	out, err := c.ssm.DescribeInstanceInformation(ctx, &ssm.DescribeInstanceInformationInput{
		Filters: []ssmtypes.InstanceInformationStringFilter{
			{Key: aws.String("InstanceIds"), Values: []string{instanceID}},
		},
	})
	if err != nil {
		return platform.AgentStatus{}, fmt.Errorf("failed to query SSM agent status for %s: %w", instanceID, err)
	}

	if len(out.InstanceInformationList) == 0 {
		return platform.AgentStatus{Raw: "NotRegistered"}, nil
	}

	ping := out.InstanceInformationList[0].PingStatus
	return platform.AgentStatus{
		Raw:    string(ping),
		Online: ping == ssmtypes.PingStatusOnline,
	}, nil
}

// SendCommand implements platform.Provider.
func (c *Client) SendCommand(ctx context.Context, instanceID string, script []string) (string, error) {
	out, err := c.ssm.SendCommand(ctx, &ssm.SendCommandInput{
		InstanceIds:  []string{instanceID},
		DocumentName: aws.String(runPowerShellDocument),
		Parameters:   map[string][]string{"commands": script},
		Comment:      aws.String("deskforge remote credential provisioning"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to send command to %s: %w", instanceID, err)
	}
	if out.Command == nil || out.Command.CommandId == nil {
		return "", fmt.Errorf("SSM returned no command ID for %s", instanceID)
	}
	return *out.Command.CommandId, nil
}

// CommandResult implements platform.Provider. SSM takes a moment to
// register a fresh invocation; that window is surfaced as
// platform.ErrCommandNotRegistered so callers keep polling.
func (c *Client) CommandResult(ctx context.Context, commandID, instanceID string) (platform.CommandResult, error) {
	out, err := c.ssm.GetCommandInvocation(ctx, &ssm.GetCommandInvocationInput{
		CommandId:  aws.String(commandID),
		InstanceId: aws.String(instanceID),
	})
	if err != nil {
		var notFound *ssmtypes.InvocationDoesNotExist
		if errors.As(err, &notFound) {
			return platform.CommandResult{}, platform.ErrCommandNotRegistered
		}
		return platform.CommandResult{}, fmt.Errorf("failed to fetch command invocation %s: %w", commandID, err)
	}

	return platform.CommandResult{
		Status: commandStatus(out.Status),
		Stdout: aws.ToString(out.StandardOutputContent),
		Stderr: aws.ToString(out.StandardErrorContent),
	}, nil
}

// commandStatus maps an SSM invocation status onto the provider-neutral
// command lifecycle.
func commandStatus(s ssmtypes.CommandInvocationStatus) platform.CommandStatus {
	switch s {
	case ssmtypes.CommandInvocationStatusPending:
		return platform.CommandPending
	case ssmtypes.CommandInvocationStatusInProgress:
		return platform.CommandInProgress
	case ssmtypes.CommandInvocationStatusDelayed:
		return platform.CommandDelayed
	case ssmtypes.CommandInvocationStatusSuccess:
		return platform.CommandSuccess
	case ssmtypes.CommandInvocationStatusCancelled:
		return platform.CommandCancelled
	case ssmtypes.CommandInvocationStatusTimedOut:
		return platform.CommandTimedOut
	case ssmtypes.CommandInvocationStatusFailed:
		return platform.CommandFailed
	default:
		return platform.CommandStatus(s)
	}
}

// InstanceStates implements platform.Provider.
func (c *Client) InstanceStates(ctx context.Context, instanceIDs []string) (map[string]string, error) {
	if len(instanceIDs) == 0 {
		return map[string]string{}, nil
	}

	out, err := c.ec2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: instanceIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe instances: %w", err)
	}

	states := make(map[string]string, len(instanceIDs))
	for _, reservation := range out.Reservations {
		for _, inst := range reservation.Instances {
			if inst.InstanceId == nil || inst.State == nil {
				continue
			}
			states[*inst.InstanceId] = string(inst.State.Name)
		}
	}
	return states, nil
}

// StartInstances implements platform.Provider.
func (c *Client) StartInstances(ctx context.Context, instanceIDs []string) error {
	if _, err := c.ec2.StartInstances(ctx, &ec2.StartInstancesInput{InstanceIds: instanceIDs}); err != nil {
		return fmt.Errorf("failed to start instances: %w", err)
	}

	waiter := ec2.NewInstanceRunningWaiter(c.ec2)
	if err := waiter.Wait(ctx, &ec2.DescribeInstancesInput{InstanceIds: instanceIDs}, stateChangeTimeout); err != nil {
		return fmt.Errorf("timed out waiting for instances to run: %w", err)
	}
	return nil
}

// StopInstances implements platform.Provider.
func (c *Client) StopInstances(ctx context.Context, instanceIDs []string) error {
	if _, err := c.ec2.StopInstances(ctx, &ec2.StopInstancesInput{InstanceIds: instanceIDs}); err != nil {
		return fmt.Errorf("failed to stop instances: %w", err)
	}

	waiter := ec2.NewInstanceStoppedWaiter(c.ec2)
	if err := waiter.Wait(ctx, &ec2.DescribeInstancesInput{InstanceIds: instanceIDs}, stateChangeTimeout); err != nil {
		return fmt.Errorf("timed out waiting for instances to stop: %w", err)
	}
	return nil
}
