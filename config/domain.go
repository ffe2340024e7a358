package config

import (
	"fmt"
	"strings"

	"github.com/maxpert/auth-go/auth"
	"github.com/maxpert/auth-go/metrics"
	"github.com/maxpert/auth-go/realm"
	"go.uber.org/zap"
)

// NewLogger builds a production zap logger at the configured level
func (c *AuthConfig) NewLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %s: %w", c.Logging.Level, err)
	}
	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = level
	return zapConfig.Build()
}

// BuildDomain constructs a security domain from the configuration: realms
// are opened, name rewriters derived from the domain section, and metrics
// wired when enabled. A nil collector uses the configured metrics settings.
func BuildDomain(cfg *AuthConfig, log *zap.Logger, collector auth.Collector) (*auth.Domain, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	if collector == nil && cfg.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Metrics.Namespace)
	}

	builder := auth.NewDomainBuilder().
		WithDefaultRealm(cfg.Domain.DefaultRealm).
		WithAnonymousAllowed(cfg.Domain.AnonymousAllowed).
		WithLogger(log).
		WithMetrics(collector)

	for _, realmCfg := range cfg.Realms {
		switch realmCfg.Type {
		case "file":
			fileRealm, err := realm.NewFileRealm(realmCfg.Path, log)
			if err != nil {
				return nil, fmt.Errorf("failed to open realm '%s': %w", realmCfg.Name, err)
			}
			builder.WithRealm(realm.NewInfo(realmCfg.Name, fileRealm, nil))
		default:
			return nil, fmt.Errorf("realm '%s': unknown realm type '%s'", realmCfg.Name, realmCfg.Type)
		}
	}

	if cfg.Domain.LowercaseNames {
		builder.WithPreRealmRewriter(realm.NameRewriterFunc(strings.ToLower))
	}
	if cfg.Domain.StripNameSuffix {
		builder.WithPostRealmRewriter(realm.NameRewriterFunc(func(name string) string {
			if idx := strings.IndexByte(name, '@'); idx >= 0 {
				return name[:idx]
			}
			return name
		}))
	}

	return builder.Build()
}
