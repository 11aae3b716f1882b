package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := validAWSConfig()
	cfg.Filespace = FilespaceConfig{
		Domain:     "files.example.com",
		User:       "operator",
		Password:   "fs-secret",
		MountPoint: `F:\`,
	}

	require.NoError(t, Save(path, cfg))

	// The plaintext password must not appear on disk.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "fs-secret")
	require.Contains(t, string(data), "password_encoded: true")

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.Provider, loaded.Provider)
	require.Equal(t, cfg.AWS, loaded.AWS)
	require.Equal(t, cfg.Instances, loaded.Instances)
	require.Equal(t, "fs-secret", loaded.Filespace.Password)
}

func TestLoadPlaintextPassword(t *testing.T) {
	t.Parallel()

	// Files written before obfuscation carry the password verbatim and no
	// encoded flag.
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `provider: aws
aws:
  region: us-east-1
instances:
  count: 1
  type: g4dn.xlarge
  volume_size_gb: 100
filespace:
  domain: files.example.com
  password: plain-secret
  mount_point: 'F:\'
connection_format: dcv
allowed_cidr: 0.0.0.0/0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "plain-secret", cfg.Filespace.Password)
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `provider: aws
aws:
  region: eu-west-1
instances:
  count: 2
  type: g5.xlarge
  volume_size_gb: 50
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DefaultNamePrefix, cfg.Instances.NamePrefix)
	require.Equal(t, FormatDCV, cfg.ConnectionFormat)
	require.Equal(t, "0.0.0.0/0", cfg.AllowedCIDR)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalidConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: gcp\n"), 0o600))

	_, err := Load(path)
	require.ErrorContains(t, err, "validation failed")
}

func TestSavePermissions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, Save(path, validAWSConfig()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
