package auth

import (
	"fmt"

	"github.com/maxpert/auth-go/errors"
	"github.com/maxpert/auth-go/realm"
	"go.uber.org/zap"
)

// Domain groups the realms, name rewriting rules and policy that server
// authentication contexts run against. A Domain is immutable once built;
// contexts created from it may be driven concurrently.
type Domain struct {
	preRealmRewriter  realm.NameRewriter
	postRealmRewriter realm.NameRewriter
	realmMapper       realm.RealmMapper
	realms            map[string]*realm.Info
	defaultRealmName  string
	anonymousAllowed  bool
	log               *zap.Logger
	metrics           Collector
}

// NewContext creates a server authentication context for one attempt
// against this domain
func (d *Domain) NewContext() *Context {
	c := &Context{
		domain:  d,
		log:     d.log,
		metrics: d.metrics,
	}
	c.state.Store(initialState)
	return c
}

// IsAnonymousAllowed reports whether the domain policy permits anonymous
// authorization
func (d *Domain) IsAnonymousAllowed() bool {
	return d.anonymousAllowed
}

// DefaultRealmName returns the realm used when the mapper yields no mapping
func (d *Domain) DefaultRealmName() string {
	return d.defaultRealmName
}

// RealmNames returns the names of all configured realms
func (d *Domain) RealmNames() []string {
	names := make([]string, 0, len(d.realms))
	for name := range d.realms {
		names = append(names, name)
	}
	return names
}

func (d *Domain) realmInfo(realmName string) (*realm.Info, error) {
	info, exists := d.realms[realmName]
	if !exists {
		return nil, errors.NewUnknownRealm(realmName)
	}
	return info, nil
}

func (d *Domain) rewritePreRealm(name string) string {
	if d.preRealmRewriter == nil {
		return name
	}
	return d.preRealmRewriter.RewriteName(name)
}

func (d *Domain) rewritePostRealm(name string) string {
	if d.postRealmRewriter == nil {
		return name
	}
	return d.postRealmRewriter.RewriteName(name)
}

func (d *Domain) mapRealm(name string) string {
	if d.realmMapper == nil {
		return d.defaultRealmName
	}
	if mapped := d.realmMapper.RealmMapping(name); mapped != "" {
		return mapped
	}
	return d.defaultRealmName
}

// DomainBuilder provides a fluent API for building a Domain
type DomainBuilder struct {
	domain *Domain
}

// NewDomainBuilder creates a new domain builder
func NewDomainBuilder() *DomainBuilder {
	return &DomainBuilder{
		domain: &Domain{
			realms:  make(map[string]*realm.Info),
			log:     zap.NewNop(),
			metrics: &NoOpCollector{},
		},
	}
}

// WithRealm adds a realm to the domain. The first realm added becomes the
// default unless WithDefaultRealm overrides it.
func (b *DomainBuilder) WithRealm(info *realm.Info) *DomainBuilder {
	b.domain.realms[info.Name] = info
	if b.domain.defaultRealmName == "" {
		b.domain.defaultRealmName = info.Name
	}
	return b
}

// WithDefaultRealm sets the realm used when the mapper yields no mapping
func (b *DomainBuilder) WithDefaultRealm(realmName string) *DomainBuilder {
	b.domain.defaultRealmName = realmName
	return b
}

// WithPreRealmRewriter sets the rewriter applied before realm mapping
func (b *DomainBuilder) WithPreRealmRewriter(rewriter realm.NameRewriter) *DomainBuilder {
	b.domain.preRealmRewriter = rewriter
	return b
}

// WithPostRealmRewriter sets the rewriter applied after realm mapping
func (b *DomainBuilder) WithPostRealmRewriter(rewriter realm.NameRewriter) *DomainBuilder {
	b.domain.postRealmRewriter = rewriter
	return b
}

// WithRealmMapper sets the authentication-name to realm-name mapper
func (b *DomainBuilder) WithRealmMapper(mapper realm.RealmMapper) *DomainBuilder {
	b.domain.realmMapper = mapper
	return b
}

// WithAnonymousAllowed sets the anonymous-authorization policy
func (b *DomainBuilder) WithAnonymousAllowed(allowed bool) *DomainBuilder {
	b.domain.anonymousAllowed = allowed
	return b
}

// WithLogger sets the domain logger
func (b *DomainBuilder) WithLogger(log *zap.Logger) *DomainBuilder {
	if log != nil {
		b.domain.log = log
	}
	return b
}

// WithMetrics sets the metrics collector
func (b *DomainBuilder) WithMetrics(metrics Collector) *DomainBuilder {
	if metrics != nil {
		b.domain.metrics = metrics
	}
	return b
}

// Build validates and returns the domain
func (b *DomainBuilder) Build() (*Domain, error) {
	if len(b.domain.realms) == 0 {
		return nil, fmt.Errorf("domain requires at least one realm")
	}
	if _, exists := b.domain.realms[b.domain.defaultRealmName]; !exists {
		return nil, fmt.Errorf("default realm '%s' is not configured", b.domain.defaultRealmName)
	}
	return b.domain, nil
}
