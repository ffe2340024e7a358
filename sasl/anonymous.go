package sasl

import (
	"fmt"

	"github.com/maxpert/auth-go/auth"
)

// anonymousServer implements SASL ANONYMOUS authentication.
// The client trace message is accepted but not used as the candidate name;
// the attempt always proceeds under the well-known "anonymous" name and is
// gated on the domain's anonymous-authorization policy.
// WARNING: This mechanism should only be enabled in development/testing environments
type anonymousServer struct {
	handler RequestHandler
	done    bool
}

// NewAnonymousServer creates an ANONYMOUS mechanism server
func NewAnonymousServer(protocol, serverName string, handler RequestHandler) Server {
	return &anonymousServer{handler: handler}
}

func (a *anonymousServer) Mechanism() string {
	return "ANONYMOUS"
}

func (a *anonymousServer) Step(response []byte) ([]byte, bool, error) {
	if a.done {
		return nil, true, fmt.Errorf("ANONYMOUS negotiation already complete")
	}

	query := &auth.AnonymousAuthorizationRequest{}
	if err := a.handler.Handle(query); err != nil {
		return nil, false, err
	}
	if !query.Authorized {
		return nil, false, fmt.Errorf("anonymous authentication not allowed")
	}

	if err := a.handler.Handle(&auth.NameRequest{Name: "anonymous"}); err != nil {
		return nil, false, err
	}

	a.done = true
	return nil, true, nil
}
