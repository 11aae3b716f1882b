package terraform

import (
	"encoding/json"
	"fmt"

	"github.com/deskforge/deskforge/internal/platform"
)

// Outputs is the flattened result of terraform output -json: output name
// to its value, with the sensitivity/type wrapper stripped.
type Outputs map[string]any

// ParseOutputs flattens the terraform output -json document.
func ParseOutputs(data []byte) (Outputs, error) {
	var raw map[string]struct {
		Value any `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse terraform outputs: %w", err)
	}
	out := make(Outputs, len(raw))
	for name, entry := range raw {
		out[name] = entry.Value
	}
	return out, nil
}

// String returns a string output, or "" when absent or not a string.
func (o Outputs) String(name string) string {
	s, _ := o[name].(string)
	return s
}

// StringList returns a list output with every element rendered as a
// string; absent outputs yield nil.
func (o Outputs) StringList(name string) []string {
	list, ok := o[name].([]any)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(list))
	for _, v := range list {
		result = append(result, fmt.Sprint(v))
	}
	return result
}

// Instances assembles the provisioned instances from the instance_ids,
// instance_names, public_ips and private_ips outputs. The lists are
// index-aligned by the Terraform configuration; missing or shorter lists
// leave the respective field empty — IPs in particular may lag instance
// creation and change after a stop/start cycle.
func (o Outputs) Instances() []platform.Instance {
	ids := o.StringList("instance_ids")
	names := o.StringList("instance_names")
	publicIPs := o.StringList("public_ips")
	privateIPs := o.StringList("private_ips")

	instances := make([]platform.Instance, len(ids))
	for i, id := range ids {
		inst := platform.Instance{ID: id}
		if i < len(names) {
			inst.Name = names[i]
		}
		if inst.Name == "" {
			inst.Name = fmt.Sprintf("client-%d", i+1)
		}
		if i < len(publicIPs) {
			inst.PublicIP = publicIPs[i]
		}
		if i < len(privateIPs) {
			inst.PrivateIP = privateIPs[i]
		}
		instances[i] = inst
	}
	return instances
}
