package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// onDisk wraps Config for serialization. The filespace password is
// base64-obfuscated on disk so it does not sit in the file verbatim; this
// is obfuscation against shoulder surfing, not encryption, and the
// encoded flag keeps old plaintext files loadable.
type onDisk struct {
	Config          `yaml:",inline" mapstructure:",squash"`
	PasswordEncoded bool `yaml:"password_encoded" mapstructure:"password_encoded"`
}

// Load reads the configuration from path, decoding the obfuscated
// password and applying defaults. A missing file returns os.ErrNotExist.
func Load(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var stored onDisk
	if err := mapstructure.Decode(raw, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg := stored.Config
	if stored.PasswordEncoded && cfg.Filespace.Password != "" {
		decoded, err := base64.StdEncoding.DecodeString(cfg.Filespace.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to decode filespace password: %w", err)
		}
		cfg.Filespace.Password = string(decoded)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Save writes the configuration to path with the password obfuscated,
// creating the directory with owner-only permissions.
func Save(path string, cfg *Config) error {
	stored := onDisk{Config: *cfg}
	if stored.Filespace.Password != "" {
		stored.Filespace.Password = base64.StdEncoding.EncodeToString([]byte(stored.Filespace.Password))
		stored.PasswordEncoded = true
	}

	data, err := yaml.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
