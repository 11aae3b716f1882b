package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Destroy tears down the deployed fleet.
//
// The var file is re-rendered from the configuration so destroy sees the
// same variables as the last apply.
func Destroy(ctx context.Context, configPath string, autoApprove bool) error {
	cfg, err := loadConfig(configPathOrDefault(configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if !autoApprove {
		prompt := fmt.Sprintf("Destroy all %s infrastructure? Instance disks are deleted.", cfg.Provider)
		ok, err := confirm(prompt)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Destroy canceled.")
			return nil
		}
	}

	logFile, logPath := openSessionLog("destroy")
	defer logFile.Close()
	out := io.MultiWriter(os.Stdout, logFile)

	varFile, err := writeVarFile(cfg)
	if err != nil {
		return fmt.Errorf("failed to write variable file: %w", err)
	}
	fmt.Fprintf(out, "Variable file written to %s\n", varFile)

	runner := newRunner(cfg, out)
	if err := runner.Destroy(ctx, varFileName); err != nil {
		return fmt.Errorf("terraform destroy failed: %w", err)
	}

	fmt.Println("Fleet destroyed.")
	if logPath != "" {
		fmt.Printf("Full log: %s\n", logPath)
	}
	return nil
}
