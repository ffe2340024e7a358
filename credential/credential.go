package credential

import (
	"fmt"
	"sort"
	"sync"
)

// Kind classifies a secret or proof type that a realm may store or verify.
// Kinds are registered in a package-level table so that new mechanisms can
// introduce their own kinds without touching the realm abstraction.
type Kind string

// Built-in credential kinds
const (
	// KindPlainPassword is a raw plaintext secret, as provided by a mechanism
	KindPlainPassword Kind = "plain-password"

	// KindReversiblePassword is a stored password whose clear text can be recovered
	KindReversiblePassword Kind = "reversible-password"

	// KindBcryptHash is a one-way bcrypt password hash; verify-only
	KindBcryptHash Kind = "bcrypt-hash"
)

var (
	kindsMutex sync.RWMutex
	kinds      = map[Kind]struct{}{
		KindPlainPassword:      {},
		KindReversiblePassword: {},
		KindBcryptHash:         {},
	}
)

// RegisterKind adds a credential kind to the registered-kind table.
// Registering an already-known kind is a no-op.
func RegisterKind(kind Kind) {
	kindsMutex.Lock()
	defer kindsMutex.Unlock()
	kinds[kind] = struct{}{}
}

// KnownKind reports whether a kind has been registered
func KnownKind(kind Kind) bool {
	kindsMutex.RLock()
	defer kindsMutex.RUnlock()
	_, ok := kinds[kind]
	return ok
}

// Kinds returns all registered kinds in sorted order
func Kinds() []Kind {
	kindsMutex.RLock()
	defer kindsMutex.RUnlock()
	all := make([]Kind, 0, len(kinds))
	for kind := range kinds {
		all = append(all, kind)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return all
}

// SupportLevel describes a realm's declared ability to produce or verify
// a credential kind for a given identity.
type SupportLevel int

const (
	// Unsupported means the realm can neither obtain nor verify the kind
	Unsupported SupportLevel = iota

	// PossiblyObtainable means the realm may be able to produce a value of the kind
	PossiblyObtainable

	// DefinitelyObtainable means the realm can produce a value of the kind
	DefinitelyObtainable

	// DefinitelyVerifiable means the realm can verify a presented value of the kind
	DefinitelyVerifiable

	// FullySupported means the kind is both obtainable and verifiable
	FullySupported
)

// MayBeObtainable reports whether fetching a credential of the kind could succeed
func (s SupportLevel) MayBeObtainable() bool {
	return s == PossiblyObtainable || s == DefinitelyObtainable || s == FullySupported
}

// IsDefinitelyObtainable reports whether fetching a credential of the kind will succeed
func (s SupportLevel) IsDefinitelyObtainable() bool {
	return s == DefinitelyObtainable || s == FullySupported
}

// IsDefinitelyVerifiable reports whether the realm can verify a presented value of the kind
func (s SupportLevel) IsDefinitelyVerifiable() bool {
	return s == DefinitelyVerifiable || s == FullySupported
}

func (s SupportLevel) String() string {
	switch s {
	case Unsupported:
		return "unsupported"
	case PossiblyObtainable:
		return "possibly-obtainable"
	case DefinitelyObtainable:
		return "definitely-obtainable"
	case DefinitelyVerifiable:
		return "definitely-verifiable"
	case FullySupported:
		return "fully-supported"
	default:
		return fmt.Sprintf("support-level(%d)", int(s))
	}
}

// Credential is a typed secret or proof value exchanged between mechanisms
// and realms.
type Credential interface {
	// Kind returns the registered kind of this credential
	Kind() Kind
}

// Reversible is a stored credential whose clear text can be recovered,
// e.g. for challenge-response mechanisms that need the raw secret.
// Recovery may fail if the stored encoding cannot be decoded.
type Reversible interface {
	Credential

	// ClearText recovers the plaintext secret from the stored encoding
	ClearText() ([]byte, error)
}

// Plain is a raw plaintext secret as presented by a mechanism
type Plain struct {
	Secret []byte
}

// NewPlain creates a plaintext credential from a raw secret
func NewPlain(secret []byte) *Plain {
	return &Plain{Secret: secret}
}

func (p *Plain) Kind() Kind {
	return KindPlainPassword
}

// ClearText returns the raw secret; a plaintext secret is trivially reversible
func (p *Plain) ClearText() ([]byte, error) {
	return p.Secret, nil
}

// ClearPassword is a stored two-way password kept in the clear
type ClearPassword struct {
	Password []byte
}

// NewClearPassword creates a reversible stored password from its clear text
func NewClearPassword(password []byte) *ClearPassword {
	return &ClearPassword{Password: password}
}

func (c *ClearPassword) Kind() Kind {
	return KindReversiblePassword
}

func (c *ClearPassword) ClearText() ([]byte, error) {
	return c.Password, nil
}

// BcryptHash is a stored one-way bcrypt hash; it can be verified against
// but its clear text cannot be recovered
type BcryptHash struct {
	Hash []byte
}

// NewBcryptHash creates a verify-only credential from a bcrypt hash
func NewBcryptHash(hash []byte) *BcryptHash {
	return &BcryptHash{Hash: hash}
}

func (b *BcryptHash) Kind() Kind {
	return KindBcryptHash
}
