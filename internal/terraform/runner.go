// Package terraform drives the Terraform CLI for the provisioning
// backend: plan/apply/destroy of the workstation stack and typed access
// to its outputs.
package terraform

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
)

// AMIOverrideFile, when present in the working directory, pins the
// Windows image instead of the latest-AMI lookup.
const AMIOverrideFile = "ami-override.tfvars"

// Runner invokes the Terraform CLI in one working directory. Cloud
// credentials are passed through the environment, never the command line.
type Runner struct {
	// WorkDir is the directory holding the Terraform configuration.
	WorkDir string
	// Binary overrides the terraform executable name, for tests.
	Binary string
	// Env holds extra environment variables, typically cloud credentials.
	Env map[string]string
	// Stdout and Stderr receive the streamed command output. Nil writers
	// discard it.
	Stdout io.Writer
	Stderr io.Writer
}

// Init runs terraform init.
func (r *Runner) Init(ctx context.Context) error {
	return r.run(ctx, "init", "-input=false")
}

// Validate runs terraform validate.
func (r *Runner) Validate(ctx context.Context) error {
	return r.run(ctx, "validate")
}

// Plan runs terraform plan against the given var file.
func (r *Runner) Plan(ctx context.Context, varFile string) error {
	return r.run(ctx, r.withVarFiles("plan", varFile, "-input=false")...)
}

// Apply runs terraform apply -auto-approve against the given var file.
func (r *Runner) Apply(ctx context.Context, varFile string) error {
	return r.run(ctx, r.withVarFiles("apply", varFile, "-input=false", "-auto-approve")...)
}

// Destroy runs terraform destroy -auto-approve against the given var file.
func (r *Runner) Destroy(ctx context.Context, varFile string) error {
	return r.run(ctx, r.withVarFiles("destroy", varFile, "-input=false", "-auto-approve")...)
}

// Output returns the parsed terraform output -json of the working
// directory.
func (r *Runner) Output(ctx context.Context) (Outputs, error) {
	var buf bytes.Buffer
	cmd := r.command(ctx, "output", "-json")
	cmd.Stdout = &buf
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("terraform output failed: %w", err)
	}
	return ParseOutputs(buf.Bytes())
}

// withVarFiles appends the var file flags, adding the AMI override file
// when it exists in the working directory.
func (r *Runner) withVarFiles(subcommand, varFile string, extra ...string) []string {
	args := append([]string{subcommand}, extra...)
	if varFile != "" {
		args = append(args, "-var-file="+varFile)
	}
	if _, err := os.Stat(filepath.Join(r.WorkDir, AMIOverrideFile)); err == nil {
		args = append(args, "-var-file="+AMIOverrideFile)
	}
	return args
}

func (r *Runner) run(ctx context.Context, args ...string) error {
	cmd := r.command(ctx, args...)
	cmd.Stdout = r.Stdout
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("terraform %s failed: %w", args[0], err)
	}
	return nil
}

func (r *Runner) command(ctx context.Context, args ...string) *exec.Cmd {
	binary := r.Binary
	if binary == "" {
		binary = "terraform"
	}
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = r.WorkDir
	cmd.Stderr = r.Stderr
	cmd.Env = append(os.Environ(), sortedEnv(r.Env)...)
	return cmd
}

func sortedEnv(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(env))
	for _, k := range keys {
		pairs = append(pairs, k+"="+env[k])
	}
	return pairs
}
