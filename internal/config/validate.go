package config

import (
	"fmt"
	"regexp"
)

// Validation bounds for operator input.
const (
	MinInstanceCount = 1
	MaxInstanceCount = 10
	MinVolumeSizeGB  = 30
	MaxVolumeSizeGB  = 1000
)

var (
	domainRe       = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-_.]*\.[a-zA-Z0-9][a-zA-Z0-9\-_.]*$`)
	mountPointRe   = regexp.MustCompile(`^[A-Za-z]:(\\.*)?$`)
	cidrRe         = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}/\d{1,2}$`)
	awsInstanceRe  = regexp.MustCompile(`^[a-z]+[0-9]+[a-z]*\.[a-z0-9]+$`)
	azureInstance  = regexp.MustCompile(`^(Standard|Basic)_[A-Za-z0-9_]+$`)
	awsKeyRe       = regexp.MustCompile(`^AKIA[0-9A-Z]{16}$`)
	subscriptionRe = regexp.MustCompile(`^[0-9a-fA-F]{8}(-[0-9a-fA-F]{4}){3}-[0-9a-fA-F]{12}$`)
)

// Validate checks the whole configuration and returns the first problem
// found.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderAWS:
		if c.AWS.Region == "" {
			return fmt.Errorf("aws.region is required")
		}
		if c.AWS.AccessKeyID != "" && !awsKeyRe.MatchString(c.AWS.AccessKeyID) {
			return fmt.Errorf("aws.access_key_id %q does not look like an access key ID", c.AWS.AccessKeyID)
		}
		if err := ValidateInstanceType(c.Instances.Type); err != nil {
			return err
		}
	case ProviderAzure:
		if c.Azure.Location == "" {
			return fmt.Errorf("azure.location is required")
		}
		if c.Azure.ResourceGroup == "" {
			return fmt.Errorf("azure.resource_group is required")
		}
		if !subscriptionRe.MatchString(c.Azure.SubscriptionID) {
			return fmt.Errorf("azure.subscription_id %q is not a subscription UUID", c.Azure.SubscriptionID)
		}
		if !azureInstance.MatchString(c.Instances.Type) {
			return fmt.Errorf("instance type %q is not an Azure VM size", c.Instances.Type)
		}
	case "":
		return fmt.Errorf("provider is required (aws or azure)")
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}

	if err := ValidateInstanceCount(c.Instances.Count); err != nil {
		return err
	}
	if err := ValidateVolumeSize(c.Instances.VolumeSizeGB); err != nil {
		return err
	}
	if err := ValidateCIDR(c.AllowedCIDR); err != nil {
		return err
	}
	if c.ConnectionFormat != FormatDCV && c.ConnectionFormat != FormatRDP {
		return fmt.Errorf("connection_format must be %q or %q", FormatDCV, FormatRDP)
	}

	if c.Filespace.Domain != "" {
		if err := ValidateFilespaceDomain(c.Filespace.Domain); err != nil {
			return err
		}
		if err := ValidateMountPoint(c.Filespace.MountPoint); err != nil {
			return err
		}
	}
	return nil
}

// ValidateFilespaceDomain checks a network filesystem domain name.
func ValidateFilespaceDomain(domain string) error {
	if !domainRe.MatchString(domain) {
		return fmt.Errorf("filespace domain %q is not a valid domain name", domain)
	}
	return nil
}

// ValidateMountPoint checks a Windows drive mount point like F:\ or
// F:\data.
func ValidateMountPoint(mount string) error {
	if !mountPointRe.MatchString(mount) {
		return fmt.Errorf("mount point %q must be a Windows drive path like F:\\", mount)
	}
	return nil
}

// ValidateInstanceCount bounds the fleet size.
func ValidateInstanceCount(count int) error {
	if count < MinInstanceCount || count > MaxInstanceCount {
		return fmt.Errorf("instance count %d must be between %d and %d", count, MinInstanceCount, MaxInstanceCount)
	}
	return nil
}

// ValidateVolumeSize bounds the root volume.
func ValidateVolumeSize(sizeGB int) error {
	if sizeGB < MinVolumeSizeGB || sizeGB > MaxVolumeSizeGB {
		return fmt.Errorf("volume size %d GB must be between %d and %d", sizeGB, MinVolumeSizeGB, MaxVolumeSizeGB)
	}
	return nil
}

// ValidateCIDR checks the shape of an IPv4 CIDR block.
func ValidateCIDR(cidr string) error {
	if !cidrRe.MatchString(cidr) {
		return fmt.Errorf("%q is not an IPv4 CIDR block", cidr)
	}
	return nil
}

// ValidateInstanceType checks the shape of an EC2 instance type like
// g4dn.xlarge.
func ValidateInstanceType(instanceType string) error {
	if !awsInstanceRe.MatchString(instanceType) {
		return fmt.Errorf("instance type %q is not an EC2 instance type", instanceType)
	}
	return nil
}
