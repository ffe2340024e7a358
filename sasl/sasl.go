package sasl

import (
	"github.com/maxpert/auth-go/auth"
)

// RequestHandler resolves batches of negotiation requests on behalf of a
// mechanism. *auth.Dispatcher is the production implementation.
type RequestHandler interface {
	Handle(requests ...auth.Request) error
}

// Server is one in-flight SASL negotiation on the server side
type Server interface {
	// Mechanism returns the mechanism name (e.g., "PLAIN", "ANONYMOUS")
	Mechanism() string

	// Step processes one client response and produces the next challenge.
	// done is true once the negotiation has finished successfully.
	Step(response []byte) (challenge []byte, done bool, err error)
}

// Options carries fixed per-negotiation configuration
type Options struct {
	// QueryAll requests enumeration of every mechanism, including
	// non-default ones
	QueryAll bool
}

// ServerFactory constructs SASL servers for named mechanisms
type ServerFactory interface {
	// Mechanisms returns the mechanism names the factory can serve
	Mechanisms(opts Options) []string

	// Create constructs a server for the selected mechanism wired to the
	// given request handler
	Create(mechanism, protocol, serverName string, opts Options, handler RequestHandler) (Server, error)
}

// NewServer starts a SASL negotiation against the given authentication
// context and constructs a server for the selected mechanism. Returns an
// AlreadyInitiated error if authentication was already started on the
// context. All mechanisms, including non-default ones, are eligible.
func NewServer(ctx *auth.Context, factory ServerFactory, mechanism, protocol, serverName string) (Server, error) {
	if err := ctx.Start(); err != nil {
		return nil, err
	}
	return factory.Create(mechanism, protocol, serverName, Options{QueryAll: true}, auth.NewDispatcher(ctx))
}

// completeNotifyingServer signals negotiation completion to the request
// handler exactly once: success when the wrapped server finishes, failure
// when it errors. Mechanisms themselves never send the completion signal.
type completeNotifyingServer struct {
	server   Server
	handler  RequestHandler
	notified bool
}

func newCompleteNotifyingServer(server Server, handler RequestHandler) *completeNotifyingServer {
	return &completeNotifyingServer{server: server, handler: handler}
}

func (s *completeNotifyingServer) Mechanism() string {
	return s.server.Mechanism()
}

func (s *completeNotifyingServer) Step(response []byte) ([]byte, bool, error) {
	challenge, done, err := s.server.Step(response)
	if err != nil {
		if !s.notified {
			s.notified = true
			// The attempt may already be terminal; the failure signal is
			// best-effort on this path
			_ = s.handler.Handle(&auth.CompleteRequest{Succeeded: false})
		}
		return nil, false, err
	}
	if done && !s.notified {
		s.notified = true
		if err := s.handler.Handle(&auth.CompleteRequest{Succeeded: true}); err != nil {
			return nil, false, err
		}
	}
	return challenge, done, nil
}
