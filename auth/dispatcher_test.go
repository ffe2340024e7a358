package auth

import (
	"fmt"
	"testing"

	"github.com/maxpert/auth-go/credential"
	"github.com/maxpert/auth-go/errors"
	"github.com/maxpert/auth-go/realm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingReversible is a stored credential whose clear text cannot be decoded
type failingReversible struct{}

func (failingReversible) Kind() credential.Kind {
	return credential.KindReversiblePassword
}

func (failingReversible) ClearText() ([]byte, error) {
	return nil, fmt.Errorf("undecodable encoding")
}

// customRequest is a request kind the dispatcher does not recognize
type customRequest struct{}

func (customRequest) RequestName() string { return "customRequest" }

func startedDispatcher(t *testing.T, identities ...*fakeIdentity) (*Dispatcher, *Context) {
	t.Helper()
	ctx := newTestDomain(t, identities...).NewContext()
	require.NoError(t, ctx.Start())
	return NewDispatcher(ctx), ctx
}

func TestDispatchNameRequest(t *testing.T) {
	dispatcher, ctx := startedDispatcher(t, newAliceIdentity())

	require.NoError(t, dispatcher.Handle(&NameRequest{Name: "alice"}))

	principal, err := ctx.AuthenticationPrincipal()
	require.NoError(t, err)
	assert.Equal(t, "alice", principal.Name())
}

func TestDispatchNameRequestErrorTranslated(t *testing.T) {
	dispatcher, _ := startedDispatcher(t, newAliceIdentity())

	require.NoError(t, dispatcher.Handle(&NameRequest{Name: "alice"}))

	err := dispatcher.Handle(&NameRequest{Name: "bob"})
	assert.Equal(t, errors.NegotiationFailed, errors.GetErrorCode(err))
	assert.True(t, errors.IsSequencingError(err))
}

func TestDispatchPeerPrincipalRequest(t *testing.T) {
	dispatcher, ctx := startedDispatcher(t, newAliceIdentity())

	require.NoError(t, dispatcher.Handle(&PeerPrincipalRequest{
		Principal: realm.NamePrincipal("alice"),
	}))

	principal, err := ctx.AuthenticationPrincipal()
	require.NoError(t, err)
	assert.Equal(t, "alice", principal.Name())
}

func TestDispatchPasswordVerifyDirect(t *testing.T) {
	dispatcher, _ := startedDispatcher(t, newAliceIdentity())
	require.NoError(t, dispatcher.Handle(&NameRequest{Name: "alice"}))

	verify := &PasswordVerifyRequest{Password: []byte("correct-secret")}
	require.NoError(t, dispatcher.Handle(verify))
	assert.True(t, verify.Verified)
	assert.False(t, verify.Declined)

	wrong := &PasswordVerifyRequest{Password: []byte("wrong-secret")}
	require.NoError(t, dispatcher.Handle(wrong))
	assert.False(t, wrong.Verified)
	assert.False(t, wrong.Declined)
}

func TestDispatchPasswordVerifySynthesized(t *testing.T) {
	// Raw secrets are not verifiable, but the reversible stored kind is:
	// the dispatcher synthesizes a comparable stored-password value
	bob := &fakeIdentity{
		name:     "bob",
		password: "bob-secret",
		support: map[credential.Kind]credential.SupportLevel{
			credential.KindReversiblePassword: credential.FullySupported,
		},
	}
	dispatcher, _ := startedDispatcher(t, bob)
	require.NoError(t, dispatcher.Handle(&NameRequest{Name: "bob"}))

	verify := &PasswordVerifyRequest{Password: []byte("bob-secret")}
	require.NoError(t, dispatcher.Handle(verify))
	assert.True(t, verify.Verified)
	assert.False(t, verify.Declined)
}

func TestDispatchPasswordVerifyDeclined(t *testing.T) {
	carol := &fakeIdentity{name: "carol"}
	dispatcher, _ := startedDispatcher(t, carol)
	require.NoError(t, dispatcher.Handle(&NameRequest{Name: "carol"}))

	verify := &PasswordVerifyRequest{Password: []byte("anything")}
	require.NoError(t, dispatcher.Handle(verify))
	assert.True(t, verify.Declined)
	assert.False(t, verify.Verified)
}

func TestDispatchPasswordRequest(t *testing.T) {
	bob := &fakeIdentity{
		name: "bob",
		creds: map[credential.Kind]credential.Credential{
			credential.KindReversiblePassword: credential.NewClearPassword([]byte("bob-secret")),
		},
	}
	dispatcher, _ := startedDispatcher(t, bob)
	require.NoError(t, dispatcher.Handle(&NameRequest{Name: "bob"}))

	request := &PasswordRequest{}
	require.NoError(t, dispatcher.Handle(request))
	assert.False(t, request.Declined)
	assert.Equal(t, []byte("bob-secret"), request.Password)
}

func TestDispatchPasswordRequestDeclinedWhenAbsent(t *testing.T) {
	carol := &fakeIdentity{name: "carol"}
	dispatcher, _ := startedDispatcher(t, carol)
	require.NoError(t, dispatcher.Handle(&NameRequest{Name: "carol"}))

	request := &PasswordRequest{}
	require.NoError(t, dispatcher.Handle(request))
	assert.True(t, request.Declined)
	assert.Nil(t, request.Password)
}

func TestDispatchPasswordRequestDeclinedOnDecodeFailure(t *testing.T) {
	// An undecodable stored password declines rather than erroring so the
	// mechanism can fall back to another credential type
	dave := &fakeIdentity{
		name: "dave",
		creds: map[credential.Kind]credential.Credential{
			credential.KindReversiblePassword: failingReversible{},
		},
	}
	dispatcher, _ := startedDispatcher(t, dave)
	require.NoError(t, dispatcher.Handle(&NameRequest{Name: "dave"}))

	request := &PasswordRequest{}
	require.NoError(t, dispatcher.Handle(request))
	assert.True(t, request.Declined)
}

func TestDispatchCredentialRequestOrder(t *testing.T) {
	const (
		kindA = credential.Kind("type-a")
		kindB = credential.Kind("type-b")
	)
	stored := credential.NewClearPassword([]byte("stored"))
	erin := &fakeIdentity{
		name: "erin",
		support: map[credential.Kind]credential.SupportLevel{
			kindB: credential.DefinitelyObtainable,
		},
		creds: map[credential.Kind]credential.Credential{
			kindB: stored,
		},
	}
	dispatcher, _ := startedDispatcher(t, erin)
	require.NoError(t, dispatcher.Handle(&NameRequest{Name: "erin"}))

	request := &CredentialRequest{AllowedKinds: []credential.Kind{kindA, kindB}}
	require.NoError(t, dispatcher.Handle(request))
	assert.Equal(t, credential.Credential(stored), request.Credential)
}

func TestDispatchCredentialRequestNothingObtainable(t *testing.T) {
	frank := &fakeIdentity{name: "frank"}
	dispatcher, _ := startedDispatcher(t, frank)
	require.NoError(t, dispatcher.Handle(&NameRequest{Name: "frank"}))

	request := &CredentialRequest{AllowedKinds: []credential.Kind{credential.KindBcryptHash}}
	require.NoError(t, dispatcher.Handle(request))
	assert.Nil(t, request.Credential)
}

func TestDispatchCredentialVerify(t *testing.T) {
	alice := newAliceIdentity()
	dispatcher, _ := startedDispatcher(t, alice)
	require.NoError(t, dispatcher.Handle(&NameRequest{Name: "alice"}))

	verify := &CredentialVerifyRequest{Credential: credential.NewPlain([]byte("correct-secret"))}
	require.NoError(t, dispatcher.Handle(verify))
	assert.True(t, verify.Verified)
	assert.False(t, verify.Declined)
}

func TestDispatchCredentialVerifyDeclinedForUnverifiableKind(t *testing.T) {
	alice := newAliceIdentity()
	dispatcher, _ := startedDispatcher(t, alice)
	require.NoError(t, dispatcher.Handle(&NameRequest{Name: "alice"}))

	verify := &CredentialVerifyRequest{Credential: credential.NewBcryptHash([]byte("$2a$10$x"))}
	require.NoError(t, dispatcher.Handle(verify))
	assert.True(t, verify.Declined)
	assert.False(t, verify.Verified)
}

func TestDispatchCredentialVerifyNilCredential(t *testing.T) {
	dispatcher, _ := startedDispatcher(t, newAliceIdentity())
	require.NoError(t, dispatcher.Handle(&NameRequest{Name: "alice"}))

	verify := &CredentialVerifyRequest{}
	require.NoError(t, dispatcher.Handle(verify))
	assert.True(t, verify.Declined)
}

func TestDispatchFallbackScenario(t *testing.T) {
	// A batch with an unverifiable credential-verify request followed by a
	// retrieval over [type-a, type-b] where only type-b is obtainable: the
	// verify request is declined, not errored, and type-b's value returned
	const (
		kindA = credential.Kind("type-a")
		kindB = credential.Kind("type-b")
	)
	stored := credential.NewClearPassword([]byte("stored"))
	grace := &fakeIdentity{
		name: "grace",
		support: map[credential.Kind]credential.SupportLevel{
			kindB: credential.PossiblyObtainable,
		},
		creds: map[credential.Kind]credential.Credential{
			kindB: stored,
		},
	}
	dispatcher, _ := startedDispatcher(t, grace)
	require.NoError(t, dispatcher.Handle(&NameRequest{Name: "grace"}))

	verify := &CredentialVerifyRequest{Credential: credential.NewBcryptHash([]byte("$2a$10$x"))}
	fetch := &CredentialRequest{AllowedKinds: []credential.Kind{kindA, kindB}}
	require.NoError(t, dispatcher.Handle(verify, fetch))

	assert.True(t, verify.Declined)
	assert.Equal(t, credential.Credential(stored), fetch.Credential)
}

func TestDispatchAnonymousAuthorization(t *testing.T) {
	allowed, err := NewDomainBuilder().
		WithRealm(realm.NewInfo("default", &fakeRealm{}, nil)).
		WithAnonymousAllowed(true).
		Build()
	require.NoError(t, err)

	// Answered straight from domain policy; the state machine is untouched,
	// so this works even before Start
	query := &AnonymousAuthorizationRequest{}
	require.NoError(t, NewDispatcher(allowed.NewContext()).Handle(query))
	assert.True(t, query.Authorized)

	denied := newTestDomain(t)
	query = &AnonymousAuthorizationRequest{}
	require.NoError(t, NewDispatcher(denied.NewContext()).Handle(query))
	assert.False(t, query.Authorized)
}

func TestDispatchCompleteRequest(t *testing.T) {
	alice := newAliceIdentity()
	dispatcher, ctx := startedDispatcher(t, alice)
	require.NoError(t, dispatcher.Handle(
		&NameRequest{Name: "alice"},
		&CompleteRequest{Succeeded: true},
	))

	identity, err := ctx.AuthorizedIdentity()
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.Principal().Name())
	assert.Equal(t, int32(1), alice.disposeCount())
}

func TestDispatchCompleteRequestFailure(t *testing.T) {
	alice := newAliceIdentity()
	dispatcher, ctx := startedDispatcher(t, alice)
	require.NoError(t, dispatcher.Handle(
		&NameRequest{Name: "alice"},
		&CompleteRequest{Succeeded: false},
	))

	_, err := ctx.AuthorizedIdentity()
	assert.True(t, errors.IsNoSuccessfulAuthentication(err))
	assert.Equal(t, int32(1), alice.disposeCount())
}

func TestDispatchCompleteRequestSequencingErrorPropagates(t *testing.T) {
	dispatcher, _ := startedDispatcher(t)

	// Succeeding without an assigned name is a caller contract violation
	err := dispatcher.Handle(&CompleteRequest{Succeeded: true})
	assert.True(t, errors.IsNoAuthenticationInProgress(err))
}

func TestDispatchAuthorizedIdentityRequest(t *testing.T) {
	dispatcher, _ := startedDispatcher(t, newAliceIdentity())
	require.NoError(t, dispatcher.Handle(
		&NameRequest{Name: "alice"},
		&CompleteRequest{Succeeded: true},
	))

	request := &AuthorizedIdentityRequest{}
	require.NoError(t, dispatcher.Handle(request))
	require.NotNil(t, request.Identity)
	assert.Equal(t, "default", request.Identity.RealmName())
}

func TestDispatchNoOpRequests(t *testing.T) {
	dispatcher, _ := startedDispatcher(t)

	require.NoError(t, dispatcher.Handle(
		&CredentialParameterRequest{MechanismName: "SCRAM-SHA-256", ParameterKind: "iterations", Parameter: 4096},
		&PeerAddressRequest{},
	))
}

func TestDispatchUnsupportedRequest(t *testing.T) {
	dispatcher, _ := startedDispatcher(t)

	err := dispatcher.Handle(customRequest{})
	assert.True(t, errors.IsUnsupportedRequest(err))
	assert.Contains(t, err.Error(), "customRequest")
}

func TestDispatchBatchStopsOnError(t *testing.T) {
	dispatcher, ctx := startedDispatcher(t, newAliceIdentity())

	name := &NameRequest{Name: "alice"}
	err := dispatcher.Handle(customRequest{}, name)
	assert.True(t, errors.IsUnsupportedRequest(err))

	// The batch stopped before the name request
	_, err = ctx.AuthenticationPrincipal()
	assert.True(t, errors.IsNoAuthenticationInProgress(err))
}
