package sasl

import (
	"fmt"
	"sort"
	"strings"
)

// Constructor builds a fresh mechanism server for one negotiation
type Constructor func(protocol, serverName string, handler RequestHandler) Server

type registration struct {
	construct  Constructor
	nonDefault bool
}

// Registry manages available authentication mechanisms. It implements
// ServerFactory.
type Registry struct {
	mechanisms map[string]registration
}

// NewRegistry creates a new mechanism registry
func NewRegistry() *Registry {
	return &Registry{
		mechanisms: make(map[string]registration),
	}
}

// Register adds a mechanism to the registry
func (r *Registry) Register(name string, construct Constructor) {
	r.mechanisms[name] = registration{construct: construct}
}

// RegisterNonDefault adds a mechanism that is only enumerated or served
// when the negotiation requests all mechanisms
func (r *Registry) RegisterNonDefault(name string, construct Constructor) {
	r.mechanisms[name] = registration{construct: construct, nonDefault: true}
}

// Mechanisms returns the mechanism names the registry can serve, sorted.
// Non-default mechanisms are included only when opts.QueryAll is set.
func (r *Registry) Mechanisms(opts Options) []string {
	names := make([]string, 0, len(r.mechanisms))
	for name, reg := range r.mechanisms {
		if reg.nonDefault && !opts.QueryAll {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String returns a space-separated list of default mechanism names for
// advertisement to clients
func (r *Registry) String() string {
	return strings.Join(r.Mechanisms(Options{}), " ")
}

// Create constructs a server for the selected mechanism
func (r *Registry) Create(mechanism, protocol, serverName string, opts Options, handler RequestHandler) (Server, error) {
	reg, exists := r.mechanisms[mechanism]
	if !exists || (reg.nonDefault && !opts.QueryAll) {
		return nil, fmt.Errorf("unsupported authentication mechanism: %s", mechanism)
	}
	return newCompleteNotifyingServer(reg.construct(protocol, serverName, handler), handler), nil
}

// DefaultRegistry returns a registry with PLAIN and ANONYMOUS mechanisms
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.Register("PLAIN", NewPlainServer)
	registry.Register("ANONYMOUS", NewAnonymousServer)
	return registry
}
