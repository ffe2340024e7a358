package auth

import (
	"sync/atomic"

	"github.com/maxpert/auth-go/credential"
	"github.com/maxpert/auth-go/errors"
	"github.com/maxpert/auth-go/realm"
	"go.uber.org/zap"
)

// Context drives a single authentication attempt from an unauthenticated
// connection to either an authorized identity or a failure.
//
// All cross-thread coordination happens through compare-and-swap on a single
// reference to an immutable state snapshot; no operation blocks internally.
// Any number of handshake or I/O goroutines may invoke operations on the
// same context concurrently.
type Context struct {
	domain  *Domain
	log     *zap.Logger
	metrics Collector
	state   atomic.Pointer[state]
}

// Start initiates authentication, transitioning the context out of its
// initial state. Mechanism bindings call this implicitly. Returns an
// AlreadyInitiated error if authentication was already started, in which
// case the state is left unchanged.
func (c *Context) Start() error {
	for {
		old := c.state.Load()
		if old.id != stateInitial {
			return errors.NewAlreadyInitiated()
		}
		if c.state.CompareAndSwap(old, inProgressState) {
			break
		}
	}
	c.metrics.AttemptStarted()
	c.log.Debug("Authentication attempt started")
	return nil
}

// AssignName sets the candidate authentication name for this attempt. The
// name is rewritten, mapped to a realm (falling back to the domain default)
// and resolved to an open realm identity handle, which the context owns
// until the attempt terminates.
//
// Valid only while authentication is in progress and no name has been
// assigned yet.
func (c *Context) AssignName(name string) error {
	current := c.state.Load()
	switch current.id {
	case stateInProgress:
	case stateNameAssigned:
		return errors.NewNameAlreadyAssigned()
	default:
		return errors.NewAlreadyInitiated()
	}
	if name == "" {
		return errors.NewInvalidName(name)
	}

	name = c.domain.rewritePreRealm(name)
	realmName := c.domain.mapRealm(name)
	info, err := c.domain.realmInfo(realmName)
	if err != nil {
		return err
	}
	name = c.domain.rewritePostRealm(name)
	name = info.RewriteName(name)

	identity, err := info.Realm.OpenIdentity(name)
	if err != nil {
		return errors.NewRealmUnavailable(realmName, err)
	}

	// The opened identity must not leak if the swap does not commit,
	// whatever the exit path.
	ok := false
	defer func() {
		if !ok {
			identity.Dispose()
		}
	}()
	if !c.state.CompareAndSwap(inProgressState, newNameAssignedState(info, identity)) {
		// In-progress is only ever left through this one path; losing the
		// swap means the single-writer assumption for this edge was broken.
		panic("auth: context state changed during name assignment")
	}
	ok = true

	c.metrics.NameAssigned(info.Name)
	c.log.Debug("Authentication name assigned",
		zap.String("name", name),
		zap.String("realm", info.Name))
	return nil
}

// Fail marks this authentication attempt as failed. The context cannot be
// used after this call. If a realm identity was open it is disposed.
func (c *Context) Fail() error {
	var old *state
	for {
		old = c.state.Load()
		if old.id != stateInProgress && old.id != stateNameAssigned {
			return errors.NewNoAuthenticationInProgress()
		}
		if c.state.CompareAndSwap(old, failedState) {
			break
		}
	}
	if old.id == stateNameAssigned {
		old.realmIdentity.Dispose()
	}
	c.metrics.AuthenticationFailed()
	c.log.Debug("Authentication attempt failed")
	return nil
}

// Succeed marks this authentication attempt as successful. The authorized
// identity is materialized from the open realm identity, which is then
// disposed. The context cannot be used after this call except to read the
// authorized identity.
func (c *Context) Succeed() error {
	old := c.state.Load()
	if old.id != stateNameAssigned {
		return errors.NewNoAuthenticationInProgress()
	}
	authz, err := old.realmIdentity.AuthorizationIdentity()
	if err != nil {
		return err
	}
	complete := newCompleteState(&AuthorizedIdentity{
		realmInfo: old.realmInfo,
		identity:  authz,
	})
	for !c.state.CompareAndSwap(old, complete) {
		old = c.state.Load()
		if old.id != stateNameAssigned {
			return errors.NewNoAuthenticationInProgress()
		}
	}
	old.realmIdentity.Dispose()

	c.metrics.AuthenticationSucceeded(old.realmInfo.Name)
	c.log.Debug("Authentication attempt succeeded",
		zap.String("realm", old.realmInfo.Name))
	return nil
}

// AuthenticationPrincipal returns the principal for the currently assigned
// authentication name. Valid only while a name is assigned.
func (c *Context) AuthenticationPrincipal() (realm.Principal, error) {
	return c.state.Load().authenticationPrincipal()
}

// CredentialSupport reports the open realm identity's support for a
// credential kind. Valid only while a name is assigned.
func (c *Context) CredentialSupport(kind credential.Kind) (credential.SupportLevel, error) {
	return c.state.Load().credentialSupport(kind)
}

// Credential fetches a credential of the given kind from the open realm
// identity, or nil if absent. Valid only while a name is assigned.
func (c *Context) Credential(kind credential.Kind) (credential.Credential, error) {
	return c.state.Load().credential(kind)
}

// VerifyCredential verifies a presented credential against the open realm
// identity. Valid only while a name is assigned.
func (c *Context) VerifyCredential(cred credential.Credential) (bool, error) {
	return c.state.Load().verifyCredential(cred)
}

// AuthorizedIdentity returns the identity authorized by a successful
// attempt. Valid only after Succeed.
func (c *Context) AuthorizedIdentity() (*AuthorizedIdentity, error) {
	return c.state.Load().authorizedIdentity()
}
