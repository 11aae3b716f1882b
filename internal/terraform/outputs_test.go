package terraform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deskforge/deskforge/internal/platform"
)

const sampleOutputs = `{
  "instance_ids": {
    "sensitive": false,
    "type": ["list", "string"],
    "value": ["i-0abc", "i-0def"]
  },
  "instance_names": {
    "sensitive": false,
    "type": ["list", "string"],
    "value": ["client-1", "client-2"]
  },
  "public_ips": {
    "sensitive": false,
    "type": ["list", "string"],
    "value": ["203.0.113.10"]
  },
  "private_ips": {
    "sensitive": false,
    "type": ["list", "string"],
    "value": ["10.0.1.10", "10.0.1.11"]
  },
  "region": {
    "sensitive": false,
    "type": "string",
    "value": "us-east-1"
  }
}`

func TestParseOutputs(t *testing.T) {
	t.Parallel()

	outputs, err := ParseOutputs([]byte(sampleOutputs))
	require.NoError(t, err)
	require.Equal(t, "us-east-1", outputs.String("region"))
	require.Equal(t, []string{"i-0abc", "i-0def"}, outputs.StringList("instance_ids"))
	require.Nil(t, outputs.StringList("missing"))
	require.Empty(t, outputs.String("instance_ids"), "non-string output reads as empty string")
}

func TestParseOutputsInvalid(t *testing.T) {
	t.Parallel()

	_, err := ParseOutputs([]byte("not json"))
	require.Error(t, err)
}

func TestOutputsInstances(t *testing.T) {
	t.Parallel()

	outputs, err := ParseOutputs([]byte(sampleOutputs))
	require.NoError(t, err)

	instances := outputs.Instances()
	require.Equal(t, []platform.Instance{
		{ID: "i-0abc", Name: "client-1", PublicIP: "203.0.113.10", PrivateIP: "10.0.1.10"},
		// The second public IP has not been assigned yet.
		{ID: "i-0def", Name: "client-2", PrivateIP: "10.0.1.11"},
	}, instances)
}

func TestOutputsInstancesDefaultNames(t *testing.T) {
	t.Parallel()

	outputs := Outputs{"instance_ids": []any{"i-1", "i-2"}}
	instances := outputs.Instances()
	require.Equal(t, "client-1", instances[0].Name)
	require.Equal(t, "client-2", instances[1].Name)
}
