// Package config holds the deskforge deployment configuration: loading
// and saving ~/.deskforge/config.yaml, the interactive setup wizard, and
// validation of operator input.
package config

import (
	"os"
	"path/filepath"
)

// Provider names accepted in the configuration.
const (
	ProviderAWS   = "aws"
	ProviderAzure = "azure"
)

// Connection file formats.
const (
	FormatDCV = "dcv"
	FormatRDP = "rdp"
)

// Config is the full deployment configuration.
type Config struct {
	Provider string `mapstructure:"provider" yaml:"provider"`

	AWS   AWSConfig   `mapstructure:"aws" yaml:"aws,omitempty"`
	Azure AzureConfig `mapstructure:"azure" yaml:"azure,omitempty"`

	Instances InstancesConfig `mapstructure:"instances" yaml:"instances"`
	Filespace FilespaceConfig `mapstructure:"filespace" yaml:"filespace"`

	// ConnectionFormat selects the descriptor flavor: dcv or rdp.
	ConnectionFormat string `mapstructure:"connection_format" yaml:"connection_format"`
	// AllowedCIDR restricts inbound remote-desktop access.
	AllowedCIDR string `mapstructure:"allowed_cidr" yaml:"allowed_cidr"`
}

// AWSConfig holds AWS credentials and placement.
type AWSConfig struct {
	Region          string `mapstructure:"region" yaml:"region"`
	AccessKeyID     string `mapstructure:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key" yaml:"secret_access_key"`
	KeyPairName     string `mapstructure:"key_pair_name" yaml:"key_pair_name,omitempty"`
}

// AzureConfig holds Azure placement. Credentials come from the default
// credential chain (az login, environment, managed identity).
type AzureConfig struct {
	SubscriptionID string `mapstructure:"subscription_id" yaml:"subscription_id"`
	Location       string `mapstructure:"location" yaml:"location"`
	ResourceGroup  string `mapstructure:"resource_group" yaml:"resource_group"`
}

// InstancesConfig describes the workstation fleet.
type InstancesConfig struct {
	Count        int    `mapstructure:"count" yaml:"count"`
	Type         string `mapstructure:"type" yaml:"type"`
	VolumeSizeGB int    `mapstructure:"volume_size_gb" yaml:"volume_size_gb"`
	NamePrefix   string `mapstructure:"name_prefix" yaml:"name_prefix"`
}

// FilespaceConfig describes the network filesystem the instances mount.
type FilespaceConfig struct {
	Domain     string `mapstructure:"domain" yaml:"domain"`
	User       string `mapstructure:"user" yaml:"user"`
	Password   string `mapstructure:"password" yaml:"password"`
	MountPoint string `mapstructure:"mount_point" yaml:"mount_point"`
}

// Defaults applied by Load and the wizard.
const (
	DefaultInstanceCount = 1
	DefaultVolumeSizeGB  = 100
	DefaultNamePrefix    = "deskforge"
	DefaultMountPoint    = `F:\`
)

// Dir returns the configuration directory, ~/.deskforge.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".deskforge"
	}
	return filepath.Join(home, ".deskforge")
}

// DefaultPath returns the configuration file path.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// CatalogCachePath returns the on-disk cache for the GPU instance-type
// catalog.
func CatalogCachePath() string {
	return filepath.Join(Dir(), "gpu-types.json")
}

// applyDefaults fills unset fields after load and after the wizard.
func (c *Config) applyDefaults() {
	if c.Instances.Count == 0 {
		c.Instances.Count = DefaultInstanceCount
	}
	if c.Instances.VolumeSizeGB == 0 {
		c.Instances.VolumeSizeGB = DefaultVolumeSizeGB
	}
	if c.Instances.NamePrefix == "" {
		c.Instances.NamePrefix = DefaultNamePrefix
	}
	if c.Filespace.MountPoint == "" {
		c.Filespace.MountPoint = DefaultMountPoint
	}
	if c.ConnectionFormat == "" {
		c.ConnectionFormat = FormatDCV
	}
	if c.AllowedCIDR == "" {
		c.AllowedCIDR = "0.0.0.0/0"
	}
}
