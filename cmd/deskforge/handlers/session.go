// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic
// and can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/deskforge/deskforge/internal/config"
	"github.com/deskforge/deskforge/internal/platform"
	"github.com/deskforge/deskforge/internal/platform/aws"
	"github.com/deskforge/deskforge/internal/platform/azure"
	"github.com/deskforge/deskforge/internal/terraform"
)

// varFileName is the variable file rendered next to the provider stack.
const varFileName = "deskforge.tfvars"

// StackRunner interface for testing - matches terraform.Runner.
type StackRunner interface {
	Init(ctx context.Context) error
	Validate(ctx context.Context) error
	Plan(ctx context.Context, varFile string) error
	Apply(ctx context.Context, varFile string) error
	Destroy(ctx context.Context, varFile string) error
	Output(ctx context.Context) (terraform.Outputs, error)
}

// Factory function variables - can be replaced in tests for dependency
// injection.
var (
	// loadConfig loads the deployment configuration.
	loadConfig = config.Load

	// saveConfig persists the deployment configuration.
	saveConfig = config.Save

	// runWizard runs the interactive configuration wizard.
	runWizard = config.RunWizard

	// newProvider builds the management-plane client for the configured
	// provider.
	newProvider = func(ctx context.Context, cfg *config.Config) (platform.Provider, error) {
		switch cfg.Provider {
		case config.ProviderAWS:
			return aws.NewClient(ctx, cfg.AWS.Region, cfg.AWS.AccessKeyID, cfg.AWS.SecretAccessKey)
		case config.ProviderAzure:
			return azure.NewClient(cfg.Azure.SubscriptionID, cfg.Azure.ResourceGroup)
		default:
			return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
		}
	}

	// newRunner builds the Terraform runner for the provider stack.
	newRunner = func(cfg *config.Config, out io.Writer) StackRunner {
		return &terraform.Runner{
			WorkDir: filepath.Join("terraform", cfg.Provider),
			Env:     terraformEnv(cfg),
			Stdout:  out,
			Stderr:  out,
		}
	}

	// confirm asks the operator a yes/no question.
	confirm = func(title string) (bool, error) {
		var ok bool
		err := huh.NewConfirm().
			Title(title).
			Affirmative("Yes").
			Negative("No").
			Value(&ok).
			Run()
		return ok, err
	}

	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}
)

// configPathOrDefault resolves the --config flag.
func configPathOrDefault(path string) string {
	if path != "" {
		return path
	}
	return config.DefaultPath()
}

// terraformEnv injects the configured credentials into the Terraform
// child process so the stack authenticates the same way the management
// clients do.
func terraformEnv(cfg *config.Config) map[string]string {
	env := map[string]string{}
	switch cfg.Provider {
	case config.ProviderAWS:
		env["AWS_ACCESS_KEY_ID"] = cfg.AWS.AccessKeyID
		env["AWS_SECRET_ACCESS_KEY"] = cfg.AWS.SecretAccessKey
		env["AWS_DEFAULT_REGION"] = cfg.AWS.Region
	case config.ProviderAzure:
		env["ARM_SUBSCRIPTION_ID"] = cfg.Azure.SubscriptionID
	}
	return env
}

// varsFromConfig maps the deployment configuration onto the variable set
// consumed by the provider stack.
func varsFromConfig(cfg *config.Config) terraform.Vars {
	return terraform.Vars{
		NamePrefix:    cfg.Instances.NamePrefix,
		InstanceType:  cfg.Instances.Type,
		InstanceCount: cfg.Instances.Count,
		VolumeSizeGB:  cfg.Instances.VolumeSizeGB,
		AllowedCIDR:   cfg.AllowedCIDR,

		Region:      cfg.AWS.Region,
		KeyPairName: cfg.AWS.KeyPairName,

		Location:       cfg.Azure.Location,
		ResourceGroup:  cfg.Azure.ResourceGroup,
		SubscriptionID: cfg.Azure.SubscriptionID,

		FilespaceDomain: cfg.Filespace.Domain,
		FilespaceUser:   cfg.Filespace.User,
		FilespaceMount:  cfg.Filespace.MountPoint,
	}
}

// writeVarFile renders the tfvars file into the provider stack directory
// and returns its path. Factory var so tests avoid touching the working
// directory.
var writeVarFile = func(cfg *config.Config) (string, error) {
	path := filepath.Join("terraform", cfg.Provider, varFileName)
	if err := terraform.WriteVarFile(path, varsFromConfig(cfg)); err != nil {
		return "", err
	}
	return path, nil
}

// openSessionLog opens a per-invocation log file under the configuration
// directory. Full tool output goes there; the console shows the
// condensed view. A nil file (with io.Discard) is returned when the log
// directory cannot be created, so callers never fail on logging alone.
func openSessionLog(command string) (io.WriteCloser, string) {
	dir := filepath.Join(config.Dir(), "logs")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nopWriteCloser{io.Discard}, ""
	}
	name := fmt.Sprintf("%s-%s.log", command, time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nopWriteCloser{io.Discard}, ""
	}
	return f, path
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
