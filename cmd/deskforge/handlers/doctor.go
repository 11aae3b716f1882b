package handlers

import (
	"context"
	"fmt"

	"github.com/deskforge/deskforge/internal/util/prerequisites"
)

// pinger is implemented by providers that can cheaply probe their API.
type pinger interface {
	Ping(ctx context.Context) error
}

// regioner is implemented by providers bound to a specific region.
type regioner interface {
	Region() string
}

// Doctor diagnoses the local environment: required tools, configuration
// validity, and provider API reachability.
func Doctor(ctx context.Context, configPath string) error {
	printHeader("deskforge doctor")

	path := configPathOrDefault(configPath)
	cfg, cfgErr := loadConfig(path)

	// Tool checks depend on the provider; fall back to the defaults when
	// the configuration is unreadable.
	fmt.Println("  Tools")
	var results *prerequisites.CheckResults
	if cfgErr == nil {
		results = checkPrereqs(cfg.Provider)
	} else {
		results = prerequisites.Check(prerequisites.DefaultTools())
	}
	for _, r := range results.Results {
		extra := r.Version
		if !r.Found {
			extra = "not found: " + r.Tool.InstallURL
		}
		printRow(r.Tool.Name, r.Found, extra)
	}
	toolsOK := !results.HasErrors()
	fmt.Println()

	fmt.Println("  Configuration")
	if cfgErr != nil {
		printRow(path, false, truncateForDisplay(cfgErr.Error()))
		fmt.Println()
		fmt.Println("  Run 'deskforge init' to create a configuration.")
		fmt.Println()
		if !toolsOK {
			return fmt.Errorf("missing required tools")
		}
		return fmt.Errorf("configuration not usable")
	}
	printRow(path, true, cfg.Provider)
	fmt.Println()

	fmt.Println("  Provider API")
	provider, err := newProvider(ctx, cfg)
	if err != nil {
		printRow(cfg.Provider, false, truncateForDisplay(err.Error()))
		fmt.Println()
		return fmt.Errorf("provider client unavailable: %w", err)
	}
	if p, ok := provider.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			printRow(cfg.Provider, false, truncateForDisplay(err.Error()))
			fmt.Println()
			return fmt.Errorf("provider API unreachable: %w", err)
		}
		detail := "credentials accepted"
		if r, ok := provider.(regioner); ok {
			detail = fmt.Sprintf("credentials accepted in %s", r.Region())
		}
		printRow(cfg.Provider, true, detail)
	} else {
		printRow(cfg.Provider, true, "client initialized")
	}
	fmt.Println()

	if !toolsOK {
		return fmt.Errorf("missing required tools")
	}
	fmt.Println("  All checks passed.")
	fmt.Println()
	return nil
}
