package sasl

import (
	"bytes"
	"fmt"

	"github.com/maxpert/auth-go/auth"
)

// plainServer implements SASL PLAIN authentication.
// PLAIN response format: [authorization-identity] NUL [authentication-identity] NUL [password].
// The authentication-identity is used as the candidate name.
type plainServer struct {
	handler RequestHandler
	done    bool
}

// NewPlainServer creates a PLAIN mechanism server
func NewPlainServer(protocol, serverName string, handler RequestHandler) Server {
	return &plainServer{handler: handler}
}

func (p *plainServer) Mechanism() string {
	return "PLAIN"
}

func (p *plainServer) Step(response []byte) ([]byte, bool, error) {
	if p.done {
		return nil, true, fmt.Errorf("PLAIN negotiation already complete")
	}

	if len(response) == 0 {
		return nil, false, fmt.Errorf("empty authentication response")
	}

	// Split response by NUL bytes: [authz-id] [authc-id] [password].
	// authz-id can be empty, authc-id and password must not be.
	parts := bytes.Split(response, []byte{0})
	if len(parts) != 3 {
		return nil, false, fmt.Errorf("invalid PLAIN response format: expected 3 parts, got %d", len(parts))
	}

	username := string(parts[1])
	password := parts[2]

	if username == "" {
		return nil, false, fmt.Errorf("username cannot be empty")
	}
	if len(password) == 0 {
		return nil, false, fmt.Errorf("password cannot be empty")
	}

	verify := &auth.PasswordVerifyRequest{Password: password}
	if err := p.handler.Handle(&auth.NameRequest{Name: username}, verify); err != nil {
		return nil, false, err
	}
	if verify.Declined {
		return nil, false, fmt.Errorf("no verifiable password credential for user %s", username)
	}
	if !verify.Verified {
		return nil, false, fmt.Errorf("authentication failed for user %s", username)
	}

	p.done = true
	return nil, true, nil
}
