package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/deskforge/deskforge/internal/platform/aws"
)

// instanceTypeOptions are the options shown in the wizard GPU instance
// type selector. Populated by FetchInstanceTypeOptions from the EC2 API;
// falls back to a static list when no credentials are available yet.
var instanceTypeOptions []huh.Option[string]

// FetchInstanceTypeOptions queries the region's GPU instance-type catalog
// and populates the wizard options. An empty result silently keeps the
// static fallback.
func FetchInstanceTypeOptions(ctx context.Context, client *aws.Client) {
	types := client.FetchGPUInstanceTypes(ctx, CatalogCachePath())
	var opts []huh.Option[string]
	for _, t := range types {
		opts = append(opts, huh.NewOption(t.Label(), t.Type))
	}
	if len(opts) > 0 {
		instanceTypeOptions = opts
	}
}

func defaultInstanceTypeOptions() []huh.Option[string] {
	var opts []huh.Option[string]
	for _, t := range aws.FallbackGPUInstanceTypes() {
		opts = append(opts, huh.NewOption(t.Label(), t.Type))
	}
	return opts
}

// RunWizard collects a full deployment configuration interactively.
func RunWizard(ctx context.Context) (*Config, error) {
	cfg := &Config{
		Provider:         ProviderAWS,
		ConnectionFormat: FormatDCV,
		AllowedCIDR:      "0.0.0.0/0",
		Instances: InstancesConfig{
			Count:        DefaultInstanceCount,
			VolumeSizeGB: DefaultVolumeSizeGB,
			NamePrefix:   DefaultNamePrefix,
		},
		Filespace: FilespaceConfig{MountPoint: DefaultMountPoint},
	}

	countStr := strconv.Itoa(cfg.Instances.Count)
	volumeStr := strconv.Itoa(cfg.Instances.VolumeSizeGB)

	form := huh.NewForm(
		// Provider
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Cloud provider").
				Options(
					huh.NewOption("Amazon Web Services", ProviderAWS),
					huh.NewOption("Microsoft Azure", ProviderAzure),
				).
				Value(&cfg.Provider),
		),

		// AWS placement and credentials
		huh.NewGroup(
			huh.NewInput().
				Title("AWS region").
				Placeholder("us-east-1").
				Value(&cfg.AWS.Region),
			huh.NewInput().
				Title("AWS access key ID").
				Description("Leave empty to use the default credential chain").
				Value(&cfg.AWS.AccessKeyID),
			huh.NewInput().
				Title("AWS secret access key").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.AWS.SecretAccessKey),
		).WithHideFunc(func() bool { return cfg.Provider != ProviderAWS }),

		// Azure placement
		huh.NewGroup(
			huh.NewInput().
				Title("Azure subscription ID").
				Value(&cfg.Azure.SubscriptionID),
			huh.NewInput().
				Title("Azure location").
				Placeholder("eastus").
				Value(&cfg.Azure.Location),
			huh.NewInput().
				Title("Resource group").
				Value(&cfg.Azure.ResourceGroup),
		).WithHideFunc(func() bool { return cfg.Provider != ProviderAzure }),

		// Instance type, per provider
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Instance type").
				Description("GPU instances suited for remote graphics workstations").
				OptionsFunc(func() []huh.Option[string] {
					if len(instanceTypeOptions) > 0 {
						return instanceTypeOptions
					}
					return defaultInstanceTypeOptions()
				}, &cfg.Instances.Type).
				Value(&cfg.Instances.Type),
		).WithHideFunc(func() bool { return cfg.Provider != ProviderAWS }),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("VM size").
				Description("GPU sizes suited for remote graphics workstations").
				Options(
					huh.NewOption("Standard_NV12s_v3 - 12 vCPU, 112 GB RAM, M60", "Standard_NV12s_v3"),
					huh.NewOption("Standard_NV24s_v3 - 24 vCPU, 224 GB RAM, M60", "Standard_NV24s_v3"),
					huh.NewOption("Standard_NC4as_T4_v3 - 4 vCPU, 28 GB RAM, T4", "Standard_NC4as_T4_v3"),
					huh.NewOption("Standard_NC8as_T4_v3 - 8 vCPU, 56 GB RAM, T4", "Standard_NC8as_T4_v3"),
				).
				Value(&cfg.Instances.Type),
		).WithHideFunc(func() bool { return cfg.Provider != ProviderAzure }),

		// Fleet
		huh.NewGroup(
			huh.NewInput().
				Title("Number of instances").
				Validate(validateCountInput).
				Value(&countStr),
			huh.NewInput().
				Title("Root volume size (GB)").
				Validate(validateVolumeInput).
				Value(&volumeStr),
			huh.NewInput().
				Title("Allowed CIDR").
				Description("Source network allowed to reach the instances").
				Validate(ValidateCIDR).
				Value(&cfg.AllowedCIDR),
		),

		// Filespace
		huh.NewGroup(
			huh.NewInput().
				Title("Filespace domain (optional)").
				Placeholder("files.example.com").
				Validate(validateOptionalDomain).
				Value(&cfg.Filespace.Domain),
			huh.NewInput().
				Title("Filespace user").
				Value(&cfg.Filespace.User),
			huh.NewInput().
				Title("Filespace password").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.Filespace.Password),
			huh.NewInput().
				Title("Mount point").
				Validate(validateOptionalMountPoint).
				Value(&cfg.Filespace.MountPoint),
		),

		// Connection files
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Connection file format").
				Options(
					huh.NewOption("NICE DCV (.dcv)", FormatDCV),
					huh.NewOption("Remote Desktop (.rdp)", FormatRDP),
				).
				Value(&cfg.ConnectionFormat),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}

	cfg.Instances.Count, _ = strconv.Atoi(countStr)
	cfg.Instances.VolumeSizeGB, _ = strconv.Atoi(volumeStr)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateCountInput(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter a number")
	}
	return ValidateInstanceCount(n)
}

func validateVolumeInput(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter a number")
	}
	return ValidateVolumeSize(n)
}

func validateOptionalDomain(s string) error {
	if s == "" {
		return nil
	}
	return ValidateFilespaceDomain(s)
}

func validateOptionalMountPoint(s string) error {
	if s == "" {
		return nil
	}
	return ValidateMountPoint(s)
}
