package auth

import (
	"net"

	"github.com/maxpert/auth-go/credential"
	"github.com/maxpert/auth-go/realm"
)

// Request is one negotiation request produced by an external mechanism.
// A mechanism hands the dispatcher an ordered batch of requests; the
// dispatcher writes answers back into the request values. Requests the
// dispatcher cannot or should not answer are marked declined rather than
// errored, so the mechanism can retry with an alternative credential type.
type Request interface {
	// RequestName names the request kind, for diagnostics
	RequestName() string
}

// NameRequest asserts the candidate authentication name
type NameRequest struct {
	Name string
}

func (*NameRequest) RequestName() string { return "NameRequest" }

// PeerPrincipalRequest asserts a transport-authenticated peer principal
// as the candidate authentication name
type PeerPrincipalRequest struct {
	Principal realm.Principal
}

func (*PeerPrincipalRequest) RequestName() string { return "PeerPrincipalRequest" }

// PasswordVerifyRequest asks the engine to verify a plaintext secret.
// Verified carries the answer; Declined is set when no password-shaped
// credential kind is verifiable for the current identity.
type PasswordVerifyRequest struct {
	Password []byte

	Verified bool
	Declined bool
}

func (*PasswordVerifyRequest) RequestName() string { return "PasswordVerifyRequest" }

// PasswordRequest asks the engine to reveal the stored plaintext secret,
// e.g. for a challenge-response computation. Declined is set when no
// reversible credential is stored or its clear text cannot be recovered.
type PasswordRequest struct {
	Password []byte
	Declined bool
}

func (*PasswordRequest) RequestName() string { return "PasswordRequest" }

// CredentialRequest asks for the first obtainable credential among the
// allowed kinds, tried in the caller-supplied order. Credential stays nil
// when none is obtainable.
type CredentialRequest struct {
	AllowedKinds []credential.Kind

	Credential credential.Credential
}

func (*CredentialRequest) RequestName() string { return "CredentialRequest" }

// CredentialVerifyRequest asks the engine to verify an arbitrary credential
// value. It is answered only when the credential's kind is definitely
// verifiable for the current identity; otherwise Declined is set.
type CredentialVerifyRequest struct {
	Credential credential.Credential

	Verified bool
	Declined bool
}

func (*CredentialVerifyRequest) RequestName() string { return "CredentialVerifyRequest" }

// CredentialParameterRequest advertises mechanism credential parameters.
// Accepted and ignored.
type CredentialParameterRequest struct {
	MechanismName string
	ParameterKind string
	Parameter     interface{}
}

func (*CredentialParameterRequest) RequestName() string { return "CredentialParameterRequest" }

// AnonymousAuthorizationRequest asks whether the domain policy permits
// anonymous authorization. Answered without touching the state machine.
type AnonymousAuthorizationRequest struct {
	Authorized bool
}

func (*AnonymousAuthorizationRequest) RequestName() string { return "AnonymousAuthorizationRequest" }

// CompleteRequest signals the negotiation outcome, completing or failing
// the attempt
type CompleteRequest struct {
	Succeeded bool
}

func (*CompleteRequest) RequestName() string { return "CompleteRequest" }

// PeerAddressRequest conveys the peer's network address. Reserved for
// address-based filtering; currently accepted and ignored.
type PeerAddressRequest struct {
	Address net.Addr
}

func (*PeerAddressRequest) RequestName() string { return "PeerAddressRequest" }

// AuthorizedIdentityRequest asks for the identity authorized by a
// successful attempt
type AuthorizedIdentityRequest struct {
	Identity *AuthorizedIdentity
}

func (*AuthorizedIdentityRequest) RequestName() string { return "AuthorizedIdentityRequest" }
