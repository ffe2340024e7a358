package auth

import (
	"github.com/maxpert/auth-go/credential"
	"github.com/maxpert/auth-go/errors"
	"github.com/maxpert/auth-go/realm"
)

type stateID int

const (
	stateInitial stateID = iota
	stateInProgress
	stateFailed
	stateNameAssigned
	stateComplete
)

func (id stateID) String() string {
	switch id {
	case stateInitial:
		return "initial"
	case stateInProgress:
		return "in-progress"
	case stateFailed:
		return "failed"
	case stateNameAssigned:
		return "name-assigned"
	case stateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// state is one immutable snapshot of an authentication attempt. The id tags
// which variant is active; realmInfo and realmIdentity are set only for
// name-assigned states, identity only for complete states. Transitions
// replace the whole snapshot via compare-and-swap, never mutate it.
type state struct {
	id            stateID
	realmInfo     *realm.Info
	realmIdentity realm.Identity
	identity      *AuthorizedIdentity
}

// Stateless variants are shared across all contexts; CAS compares pointer
// identity, so the shared values behave exactly like per-context ones.
var (
	initialState    = &state{id: stateInitial}
	inProgressState = &state{id: stateInProgress}
	failedState     = &state{id: stateFailed}
)

func newNameAssignedState(info *realm.Info, identity realm.Identity) *state {
	return &state{
		id:            stateNameAssigned,
		realmInfo:     info,
		realmIdentity: identity,
	}
}

func newCompleteState(identity *AuthorizedIdentity) *state {
	return &state{
		id:       stateComplete,
		identity: identity,
	}
}

func (s *state) authorizedIdentity() (*AuthorizedIdentity, error) {
	if s.id != stateComplete {
		return nil, errors.NewNoSuccessfulAuthentication()
	}
	return s.identity, nil
}

func (s *state) authenticationPrincipal() (realm.Principal, error) {
	if s.id != stateNameAssigned {
		return nil, errors.NewNoAuthenticationInProgress()
	}
	return s.realmIdentity.Principal()
}

func (s *state) credentialSupport(kind credential.Kind) (credential.SupportLevel, error) {
	if s.id != stateNameAssigned {
		return credential.Unsupported, errors.NewNoAuthenticationInProgress()
	}
	return s.realmIdentity.CredentialSupport(kind)
}

func (s *state) credential(kind credential.Kind) (credential.Credential, error) {
	if s.id != stateNameAssigned {
		return nil, errors.NewNoAuthenticationInProgress()
	}
	return s.realmIdentity.Credential(kind)
}

func (s *state) verifyCredential(cred credential.Credential) (bool, error) {
	if s.id != stateNameAssigned {
		return false, errors.NewNoAuthenticationInProgress()
	}
	return s.realmIdentity.VerifyCredential(cred)
}
