// Package config loads server configuration from YAML, grounded on the
// teacher's use of gopkg.in/yaml.v3 for its own cluster/storage config
// (the teacher repo's top-level config.yaml and its Config struct).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for an addrspace-server process.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Namespaces   NamespacesConfig   `yaml:"namespaces"`
	Metrics      MetricsConfig      `yaml:"metrics"`
	Auth         AuthConfig         `yaml:"auth"`
	Audit        AuditConfig        `yaml:"audit"`
	Snapshot     SnapshotConfig     `yaml:"snapshot"`
	ExternalNamespaces []ExternalNamespaceConfig `yaml:"external_namespaces"`
}

type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr" validate:"required,hostname_port"`
	LogLevel   string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

type NamespacesConfig struct {
	Count uint16 `yaml:"count" validate:"gte=1"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr" validate:"omitempty,hostname_port"`
}

type AuthConfig struct {
	Enabled       bool   `yaml:"enabled"`
	SigningSecret string `yaml:"signing_secret" validate:"required_if=Enabled true"`
	Issuer        string `yaml:"issuer"`
}

type AuditConfig struct {
	Enabled    bool   `yaml:"enabled"`
	DatabaseURL string `yaml:"database_url" validate:"required_if=Enabled true"`
}

type SnapshotConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Bucket    string `yaml:"bucket" validate:"required_if=Enabled true"`
	KeyPrefix string `yaml:"key_prefix"`
}

// ExternalNamespaceConfig configures one spec.md §6 external-namespace
// bridge endpoint.
type ExternalNamespaceConfig struct {
	NamespaceIndex uint16 `yaml:"namespace_index"`
	DialAddr       string `yaml:"dial_addr" validate:"required"`
}

// Load reads and parses a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Default returns a single-process configuration with metrics enabled
// and auth, audit, snapshots and external namespaces disabled;
// addrspace-server uses it when no config file is given.
func Default() *Config {
	return &Config{
		Server:     ServerConfig{ListenAddr: "127.0.0.1:4840", LogLevel: "info"},
		Namespaces: NamespacesConfig{Count: 2},
		Metrics:    MetricsConfig{Enabled: true, Addr: "127.0.0.1:9090"},
	}
}
