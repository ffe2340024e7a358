package config

import (
	"fmt"
	"os"
	"strings"

	yamlparser "github.com/knadh/koanf/parsers/yaml"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

// DefaultConfig creates a configuration with sensible defaults
func DefaultConfig() *AuthConfig {
	return &AuthConfig{
		Domain: DomainConfig{
			DefaultRealm:     "default",
			AnonymousAllowed: false,
			LowercaseNames:   false,
			StripNameSuffix:  false,
		},
		Realms: []RealmConfig{
			{
				Name: "default",
				Type: "file",
				Path: "./users.json",
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:   false,
			Namespace: "auth",
			Port:      9496,
		},
	}
}

// AuthConfig is the authentication engine configuration
type AuthConfig struct {
	Domain  DomainConfig  `koanf:"domain" json:"domain" yaml:"domain"`
	Realms  []RealmConfig `koanf:"realms" json:"realms" yaml:"realms"`
	Logging LoggingConfig `koanf:"logging" json:"logging" yaml:"logging"`
	Metrics MetricsConfig `koanf:"metrics" json:"metrics" yaml:"metrics"`
}

// DomainConfig configures the security domain's mapping and policy
type DomainConfig struct {
	DefaultRealm     string `koanf:"default_realm" json:"default_realm" yaml:"default_realm"`
	AnonymousAllowed bool   `koanf:"anonymous_allowed" json:"anonymous_allowed" yaml:"anonymous_allowed"`

	// LowercaseNames lowercases authentication names before realm mapping
	LowercaseNames bool `koanf:"lowercase_names" json:"lowercase_names" yaml:"lowercase_names"`

	// StripNameSuffix drops an "@suffix" from names after realm mapping
	StripNameSuffix bool `koanf:"strip_name_suffix" json:"strip_name_suffix" yaml:"strip_name_suffix"`
}

// RealmConfig configures one credential store
type RealmConfig struct {
	Name string `koanf:"name" json:"name" yaml:"name"`
	Type string `koanf:"type" json:"type" yaml:"type"`
	Path string `koanf:"path" json:"path" yaml:"path"`
}

// LoggingConfig configures engine logging
type LoggingConfig struct {
	Level string `koanf:"level" json:"level" yaml:"level"`
}

// MetricsConfig configures Prometheus metrics reporting
type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled" json:"enabled" yaml:"enabled"`
	Namespace string `koanf:"namespace" json:"namespace" yaml:"namespace"`
	Port      int    `koanf:"port" json:"port" yaml:"port"`
}

// Validate validates the configuration
func (c *AuthConfig) Validate() error {
	if len(c.Realms) == 0 {
		return fmt.Errorf("at least one realm must be configured")
	}

	realmNames := make(map[string]bool, len(c.Realms))
	for _, realmCfg := range c.Realms {
		if realmCfg.Name == "" {
			return fmt.Errorf("realm name cannot be empty")
		}
		if realmNames[realmCfg.Name] {
			return fmt.Errorf("duplicate realm name: %s", realmCfg.Name)
		}
		realmNames[realmCfg.Name] = true

		switch realmCfg.Type {
		case "file":
			if realmCfg.Path == "" {
				return fmt.Errorf("realm '%s': file realm requires a path", realmCfg.Name)
			}
		default:
			return fmt.Errorf("realm '%s': unknown realm type '%s'", realmCfg.Name, realmCfg.Type)
		}
	}

	if c.Domain.DefaultRealm == "" {
		return fmt.Errorf("default realm cannot be empty")
	}
	if !realmNames[c.Domain.DefaultRealm] {
		return fmt.Errorf("default realm '%s' is not configured", c.Domain.DefaultRealm)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Metrics.Port <= 0 || c.Metrics.Port > 65535 {
		return fmt.Errorf("invalid metrics port: %d", c.Metrics.Port)
	}

	return nil
}

// Load reads configuration from a YAML file, applies AUTH_* environment
// variable overrides (e.g. AUTH_DOMAIN__DEFAULT_REALM) and validates the
// result
func (c *AuthConfig) Load(path string) error {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yamlparser.Parser()); err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: "AUTH_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "AUTH_"))
			key = strings.ReplaceAll(key, "__", ".")
			return key, value
		},
	}), nil); err != nil {
		return fmt.Errorf("failed to load environment overrides: %w", err)
	}

	if err := k.Unmarshal("", c); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return c.Validate()
}

// Save writes the configuration to a YAML file
func (c *AuthConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
