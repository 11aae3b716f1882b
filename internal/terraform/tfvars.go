package terraform

import (
	"fmt"
	"os"
	"strings"
	"text/template"
)

// Vars is the variable set rendered into the tfvars file consumed by the
// workstation stack. Provider-specific fields are omitted from the output
// when empty.
type Vars struct {
	NamePrefix    string
	InstanceType  string
	InstanceCount int
	VolumeSizeGB  int
	AllowedCIDR   string

	// AWS
	Region      string
	KeyPairName string

	// Azure
	Location       string
	ResourceGroup  string
	SubscriptionID string

	// Network filesystem client baked into the image.
	FilespaceDomain string
	FilespaceUser   string
	FilespaceMount  string
}

var varFileTemplate = template.Must(template.New("tfvars").Parse(`# Generated by deskforge. Do not edit; re-run "deskforge init" instead.
name_prefix         = "{{ .NamePrefix }}"
instance_type       = "{{ .InstanceType }}"
instance_count      = {{ .InstanceCount }}
root_volume_size_gb = {{ .VolumeSizeGB }}
allowed_cidr        = "{{ .AllowedCIDR }}"
{{- if .Region }}
region              = "{{ .Region }}"
{{- end }}
{{- if .KeyPairName }}
key_pair_name       = "{{ .KeyPairName }}"
{{- end }}
{{- if .Location }}
location            = "{{ .Location }}"
{{- end }}
{{- if .ResourceGroup }}
resource_group      = "{{ .ResourceGroup }}"
{{- end }}
{{- if .SubscriptionID }}
subscription_id     = "{{ .SubscriptionID }}"
{{- end }}
{{- if .FilespaceDomain }}
filespace_domain    = "{{ .FilespaceDomain }}"
filespace_user      = "{{ .FilespaceUser }}"
filespace_mount     = "{{ .FilespaceMount }}"
{{- end }}
`))

// Render produces the tfvars file content.
func (v Vars) Render() (string, error) {
	var b strings.Builder
	if err := varFileTemplate.Execute(&b, v); err != nil {
		return "", fmt.Errorf("failed to render tfvars: %w", err)
	}
	return b.String(), nil
}

// WriteVarFile renders the variables and writes them to path, overwriting
// any previous file.
func WriteVarFile(path string, vars Vars) error {
	content, err := vars.Render()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write var file: %w", err)
	}
	return nil
}
