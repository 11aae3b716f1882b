// Package prerequisites checks that the client tools deskforge shells out
// to are installed before a deployment starts.
package prerequisites

import (
	"fmt"
	"os/exec"
	"strings"
)

// Tool represents a client tool that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// InstallURL provides a URL for installation instructions.
	InstallURL string
}

// DefaultTools returns the tools every deployment needs.
func DefaultTools() []Tool {
	return []Tool{
		{
			Name:        "terraform",
			Required:    true,
			Description: "Required for creating and destroying the workstation stack",
			InstallURL:  "https://developer.hashicorp.com/terraform/install",
		},
	}
}

// ProviderTools returns the tools needed for the given cloud provider.
func ProviderTools(provider string) []Tool {
	switch provider {
	case "azure":
		return []Tool{
			{
				Name:        "az",
				Required:    true,
				Description: "Required for Azure authentication (az login)",
				InstallURL:  "https://learn.microsoft.com/cli/azure/install-azure-cli",
			},
		}
	default:
		return []Tool{
			{
				Name:        "aws",
				Required:    false,
				Description: "Useful for inspecting EC2 resources and SSO sign-in",
				InstallURL:  "https://docs.aws.amazon.com/cli/latest/userguide/getting-started-install.html",
			},
		}
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool    Tool
	Found   bool
	Path    string
	Version string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.InstallURL))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Check verifies that the specified tools are available.
func Check(tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		path, err := exec.LookPath(tool.Name)
		if err == nil {
			result.Found = true
			result.Path = path
			result.Version = getToolVersion(tool.Name)
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

// CheckForProvider checks the default tools plus the provider's.
func CheckForProvider(provider string) *CheckResults {
	defaults := DefaultTools()
	extra := ProviderTools(provider)
	all := make([]Tool, 0, len(defaults)+len(extra))
	all = append(all, defaults...)
	all = append(all, extra...)
	return Check(all)
}

// getToolVersion attempts to get the version of a tool.
// Returns empty string if version cannot be determined.
func getToolVersion(name string) string {
	versionFlags := []string{"--version", "version", "-v"}

	for _, flag := range versionFlags {
		// #nosec G204 - name comes from trusted Tool definitions, not user input
		cmd := exec.Command(name, flag)
		output, err := cmd.Output()
		if err == nil {
			lines := strings.Split(string(output), "\n")
			if len(lines) > 0 {
				return strings.TrimSpace(lines[0])
			}
		}
	}

	return ""
}
