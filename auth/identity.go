package auth

import (
	"github.com/maxpert/auth-go/realm"
)

// AuthorizedIdentity is the result of a successful authentication: the
// authorization identity obtained from the realm at the moment of success,
// attributed to the realm that produced it. Read-only once constructed.
type AuthorizedIdentity struct {
	realmInfo *realm.Info
	identity  realm.AuthorizationIdentity
}

// RealmName returns the name of the realm the identity was authenticated in
func (i *AuthorizedIdentity) RealmName() string {
	return i.realmInfo.Name
}

// Principal returns the principal the identity acts as
func (i *AuthorizedIdentity) Principal() realm.Principal {
	return i.identity.Principal()
}

// Attributes returns the identity's attribute map
func (i *AuthorizedIdentity) Attributes() map[string][]string {
	return i.identity.Attributes()
}

// AuthorizationIdentity returns the underlying realm-provided identity
func (i *AuthorizedIdentity) AuthorizationIdentity() realm.AuthorizationIdentity {
	return i.identity
}
