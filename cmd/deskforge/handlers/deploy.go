package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/deskforge/deskforge/internal/util/prerequisites"
)

// checkPrereqs runs the tool checks - can be replaced in tests.
var checkPrereqs = prerequisites.CheckForProvider

// Deploy provisions the workstation fleet and rolls out credentials.
//
// The workflow:
//  1. Loads and validates the deployment configuration
//  2. Checks local prerequisites (terraform, provider CLI)
//  3. Renders the tfvars file into the provider stack directory
//  4. Runs terraform init, validate and plan
//  5. Asks for confirmation unless --auto-approve was given
//  6. Applies the stack and reads the instance outputs
//  7. Runs the credential rollout and writes connection files
//
// Terraform output streams to the console and to the session log; the
// rollout summary points at the log for the full transcript.
func Deploy(ctx context.Context, configPath string, autoApprove bool) error {
	cfg, err := loadConfig(configPathOrDefault(configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w (run 'deskforge init' first)", err)
	}

	if results := checkPrereqs(cfg.Provider); results.HasErrors() {
		return results.Error()
	}

	logFile, logPath := openSessionLog("deploy")
	defer logFile.Close()
	out := io.MultiWriter(os.Stdout, logFile)

	varFile, err := writeVarFile(cfg)
	if err != nil {
		return fmt.Errorf("failed to write variable file: %w", err)
	}
	fmt.Fprintf(out, "Variable file written to %s\n", varFile)

	runner := newRunner(cfg, out)
	if err := runner.Init(ctx); err != nil {
		return fmt.Errorf("terraform init failed: %w", err)
	}
	if err := runner.Validate(ctx); err != nil {
		return fmt.Errorf("terraform validate failed: %w", err)
	}
	if err := runner.Plan(ctx, varFileName); err != nil {
		return fmt.Errorf("terraform plan failed: %w", err)
	}

	if !autoApprove {
		prompt := fmt.Sprintf("Deploy %d x %s on %s?", cfg.Instances.Count, cfg.Instances.Type, cfg.Provider)
		ok, err := confirm(prompt)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Deploy canceled.")
			return nil
		}
	}

	if err := runner.Apply(ctx, varFileName); err != nil {
		return fmt.Errorf("terraform apply failed: %w", err)
	}

	outputs, err := runner.Output(ctx)
	if err != nil {
		return fmt.Errorf("failed to read stack outputs: %w", err)
	}
	instances := outputs.Instances()
	if len(instances) == 0 {
		return fmt.Errorf("stack applied but reported no instances")
	}
	fmt.Fprintf(out, "Provisioned %d instance(s)\n", len(instances))

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := provisionFleet(ctx, cfg, provider, instances, logFile)
	if err != nil {
		return fmt.Errorf("credential rollout failed: %w", err)
	}

	printBatchSummary(result, instances, logPath)
	return nil
}
