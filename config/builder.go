package config

// ConfigBuilder provides a fluent API for building configuration
type ConfigBuilder struct {
	config *AuthConfig
}

// NewConfigBuilder creates a new configuration builder with defaults
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		config: DefaultConfig(),
	}
}

// FromConfig creates a builder from an existing configuration
func FromConfig(config *AuthConfig) *ConfigBuilder {
	builder := NewConfigBuilder()
	*builder.config = *config
	return builder
}

// WithDefaultRealm sets the realm used when name mapping yields none
func (b *ConfigBuilder) WithDefaultRealm(name string) *ConfigBuilder {
	b.config.Domain.DefaultRealm = name
	return b
}

// WithAnonymousAllowed sets the anonymous-authorization policy
func (b *ConfigBuilder) WithAnonymousAllowed(allowed bool) *ConfigBuilder {
	b.config.Domain.AnonymousAllowed = allowed
	return b
}

// WithLowercaseNames lowercases authentication names before realm mapping
func (b *ConfigBuilder) WithLowercaseNames(enabled bool) *ConfigBuilder {
	b.config.Domain.LowercaseNames = enabled
	return b
}

// WithStripNameSuffix drops an "@suffix" from names after realm mapping
func (b *ConfigBuilder) WithStripNameSuffix(enabled bool) *ConfigBuilder {
	b.config.Domain.StripNameSuffix = enabled
	return b
}

// WithFileRealm adds a file-backed realm
func (b *ConfigBuilder) WithFileRealm(name, path string) *ConfigBuilder {
	b.config.Realms = append(b.config.Realms, RealmConfig{
		Name: name,
		Type: "file",
		Path: path,
	})
	return b
}

// WithRealms replaces the configured realms
func (b *ConfigBuilder) WithRealms(realms ...RealmConfig) *ConfigBuilder {
	b.config.Realms = realms
	return b
}

// WithLogLevel sets the log level
func (b *ConfigBuilder) WithLogLevel(level string) *ConfigBuilder {
	b.config.Logging.Level = level
	return b
}

// WithMetrics enables Prometheus metrics reporting
func (b *ConfigBuilder) WithMetrics(enabled bool, namespace string, port int) *ConfigBuilder {
	b.config.Metrics.Enabled = enabled
	if namespace != "" {
		b.config.Metrics.Namespace = namespace
	}
	if port != 0 {
		b.config.Metrics.Port = port
	}
	return b
}

// Build validates and returns the configuration
func (b *ConfigBuilder) Build() (*AuthConfig, error) {
	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	return b.config, nil
}
