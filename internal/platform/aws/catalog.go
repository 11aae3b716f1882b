package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/deskforge/deskforge/internal/util/retry"
)

// catalogTTL is how long a cached instance-type catalog stays fresh.
const catalogTTL = 7 * 24 * time.Hour

// catalogRetryDelay seeds the backoff between catalog fetch attempts.
// Overridable in tests.
var catalogRetryDelay = time.Second

// GPUInstanceType describes one GPU-capable EC2 instance type offered in
// the configured region.
type GPUInstanceType struct {
	Type        string `json:"type"`
	VCPUs       int32  `json:"vcpus"`
	MemoryGB    int64  `json:"memory_gb"`
	GPUCount    int32  `json:"gpu_count"`
	GPUName     string `json:"gpu_name"`
	GPUMemoryGB int32  `json:"gpu_memory_gb"`
}

// Label renders the catalog entry for selection prompts.
func (g GPUInstanceType) Label() string {
	return fmt.Sprintf("%s - %d vCPU, %d GB RAM, %dx %s (%d GB)",
		g.Type, g.VCPUs, g.MemoryGB, g.GPUCount, g.GPUName, g.GPUMemoryGB)
}

type catalogCache struct {
	FetchedAt time.Time         `json:"fetched_at"`
	Region    string            `json:"region"`
	Types     []GPUInstanceType `json:"types"`
}

// FetchGPUInstanceTypes returns the GPU (g-series) instance types available
// in the client's region, sorted by family then vCPU count. Results are
// cached on disk at cachePath for a week; any fetch or cache failure falls
// back to FallbackGPUInstanceTypes so the wizard always has options.
func (c *Client) FetchGPUInstanceTypes(ctx context.Context, cachePath string) []GPUInstanceType {
	if cached := loadCatalogCache(cachePath, c.region); cached != nil {
		return cached
	}

	// DescribeInstanceTypes is throttled aggressively; back off before
	// falling back to the static catalog.
	var types []GPUInstanceType
	err := retry.WithExponentialBackoff(ctx, func() error {
		var fetchErr error
		types, fetchErr = c.fetchGPUInstanceTypes(ctx)
		return fetchErr
	}, retry.WithMaxRetries(3), retry.WithInitialDelay(catalogRetryDelay))
	if err != nil || len(types) == 0 {
		return FallbackGPUInstanceTypes()
	}

	saveCatalogCache(cachePath, c.region, types)
	return types
}

func (c *Client) fetchGPUInstanceTypes(ctx context.Context) ([]GPUInstanceType, error) {
	input := &ec2.DescribeInstanceTypesInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("instance-type"), Values: []string{"g*"}},
		},
	}

	var result []GPUInstanceType
	paginator := ec2.NewDescribeInstanceTypesPaginator(c.ec2, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch instance types: %w", err)
		}
		for _, info := range page.InstanceTypes {
			entry, ok := gpuEntry(info)
			if ok {
				result = append(result, entry)
			}
		}
	}

	sort.Slice(result, func(i, j int) bool {
		fi, fj := familyOf(result[i].Type), familyOf(result[j].Type)
		if fi != fj {
			return fi < fj
		}
		return result[i].VCPUs < result[j].VCPUs
	})
	return result, nil
}

func gpuEntry(info ec2types.InstanceTypeInfo) (GPUInstanceType, bool) {
	if info.GpuInfo == nil || len(info.GpuInfo.Gpus) == 0 {
		return GPUInstanceType{}, false
	}

	entry := GPUInstanceType{Type: string(info.InstanceType)}

	var count int32
	for _, gpu := range info.GpuInfo.Gpus {
		count += aws.ToInt32(gpu.Count)
	}
	entry.GPUCount = count
	entry.GPUName = aws.ToString(info.GpuInfo.Gpus[0].Name)
	if mem := info.GpuInfo.Gpus[0].MemoryInfo; mem != nil {
		entry.GPUMemoryGB = aws.ToInt32(mem.SizeInMiB) / 1024
	}
	if info.VCpuInfo != nil {
		entry.VCPUs = aws.ToInt32(info.VCpuInfo.DefaultVCpus)
	}
	if info.MemoryInfo != nil {
		entry.MemoryGB = aws.ToInt64(info.MemoryInfo.SizeInMiB) / 1024
	}
	return entry, true
}

func familyOf(instanceType string) string {
	for i := 0; i < len(instanceType); i++ {
		if instanceType[i] == '.' {
			return instanceType[:i]
		}
	}
	return instanceType
}

// FallbackGPUInstanceTypes is the static catalog used when the EC2 API is
// unreachable. Covers the NVIDIA T4 and A10G families suitable for
// graphics workstations.
func FallbackGPUInstanceTypes() []GPUInstanceType {
	return []GPUInstanceType{
		{Type: "g4dn.xlarge", VCPUs: 4, MemoryGB: 16, GPUCount: 1, GPUName: "T4", GPUMemoryGB: 16},
		{Type: "g4dn.2xlarge", VCPUs: 8, MemoryGB: 32, GPUCount: 1, GPUName: "T4", GPUMemoryGB: 16},
		{Type: "g4dn.4xlarge", VCPUs: 16, MemoryGB: 64, GPUCount: 1, GPUName: "T4", GPUMemoryGB: 16},
		{Type: "g5.xlarge", VCPUs: 4, MemoryGB: 16, GPUCount: 1, GPUName: "A10G", GPUMemoryGB: 24},
		{Type: "g5.2xlarge", VCPUs: 8, MemoryGB: 32, GPUCount: 1, GPUName: "A10G", GPUMemoryGB: 24},
		{Type: "g5.4xlarge", VCPUs: 16, MemoryGB: 64, GPUCount: 1, GPUName: "A10G", GPUMemoryGB: 24},
	}
}

func loadCatalogCache(path, region string) []GPUInstanceType {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil
	}
	var cache catalogCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil
	}
	if cache.Region != region || time.Since(cache.FetchedAt) > catalogTTL || len(cache.Types) == 0 {
		return nil
	}
	return cache.Types
}

func saveCatalogCache(path, region string, types []GPUInstanceType) {
	if path == "" {
		return
	}
	data, err := json.MarshalIndent(catalogCache{
		FetchedAt: time.Now().UTC(),
		Region:    region,
		Types:     types,
	}, "", "  ")
	if err != nil {
		return
	}
	// Cache is best effort; a write failure only costs a refetch.
	_ = os.MkdirAll(filepath.Dir(path), 0o700)
	_ = os.WriteFile(path, data, 0o600)
}
