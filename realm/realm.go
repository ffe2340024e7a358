package realm

import (
	"github.com/maxpert/auth-go/credential"
)

// Principal identifies the entity behind an authentication name
type Principal interface {
	// Name returns the principal's name
	Name() string
}

// NamePrincipal is a principal identified by a bare name
type NamePrincipal string

// Name returns the principal's name
func (p NamePrincipal) Name() string {
	return string(p)
}

// AuthorizationIdentity is the realm-provided representation of who or what
// an authenticated name is allowed to act as. It is materialized only after
// successful verification.
type AuthorizationIdentity interface {
	// Principal returns the principal the identity acts as
	Principal() Principal

	// Attributes returns the identity's attribute map
	Attributes() map[string][]string
}

// NameRewriter rewrites an authentication name before or after realm mapping
type NameRewriter interface {
	// RewriteName returns the rewritten name
	RewriteName(name string) string
}

// NameRewriterFunc adapts a function to the NameRewriter interface
type NameRewriterFunc func(name string) string

// RewriteName returns the rewritten name
func (f NameRewriterFunc) RewriteName(name string) string {
	return f(name)
}

// RealmMapper maps a rewritten authentication name to a realm name.
// An empty result means no mapping; the caller falls back to the default realm.
type RealmMapper interface {
	// RealmMapping returns the realm name for the given authentication name
	RealmMapping(name string) string
}

// RealmMapperFunc adapts a function to the RealmMapper interface
type RealmMapperFunc func(name string) string

// RealmMapping returns the realm name for the given authentication name
func (f RealmMapperFunc) RealmMapping(name string) string {
	return f(name)
}

// Realm is a credential store capable of resolving a name to an identity
// and servicing credential queries
type Realm interface {
	// OpenIdentity opens a disposable identity handle for one candidate name.
	// The handle exists even if no such user is stored; credential queries
	// against an unknown name report Unsupported.
	OpenIdentity(name string) (Identity, error)
}

// Identity is an open, disposable lookup handle into a realm for one
// candidate name. The caller owns the handle and must call Dispose exactly
// once when finished with it.
type Identity interface {
	// Principal returns the principal for the candidate name
	Principal() (Principal, error)

	// CredentialSupport reports the realm's ability to produce or verify
	// a credential of the given kind for this identity
	CredentialSupport(kind credential.Kind) (credential.SupportLevel, error)

	// Credential fetches a credential of the given kind, or nil if absent
	Credential(kind credential.Kind) (credential.Credential, error)

	// VerifyCredential verifies a presented credential
	VerifyCredential(cred credential.Credential) (bool, error)

	// AuthorizationIdentity materializes the authorization identity
	AuthorizationIdentity() (AuthorizationIdentity, error)

	// Dispose releases the handle
	Dispose()
}

// Info describes one configured realm: its name, the realm itself, and the
// name rewriting rule applied within it
type Info struct {
	Name     string
	Realm    Realm
	Rewriter NameRewriter
}

// NewInfo creates a realm descriptor. A nil rewriter leaves names unchanged.
func NewInfo(name string, realm Realm, rewriter NameRewriter) *Info {
	return &Info{
		Name:     name,
		Realm:    realm,
		Rewriter: rewriter,
	}
}

// RewriteName applies the realm's own name rewriting rule
func (i *Info) RewriteName(name string) string {
	if i.Rewriter == nil {
		return name
	}
	return i.Rewriter.RewriteName(name)
}
