package realm

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/maxpert/auth-go/credential"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// FileRealm implements a file-based credential store
type FileRealm struct {
	filePath string
	users    map[string]*UserEntry
	mutex    sync.RWMutex
	log      *zap.Logger
}

// UserEntry represents a user entry in the realm file
type UserEntry struct {
	Username     string              `json:"username"`
	PasswordHash string              `json:"password_hash,omitempty"` // bcrypt hash
	Password     string              `json:"password,omitempty"`      // clear text, for challenge-response mechanisms
	Groups       []string            `json:"groups,omitempty"`
	Attributes   map[string][]string `json:"attributes,omitempty"`
}

// RealmFile represents the structure of the realm file
type RealmFile struct {
	Users []UserEntry `json:"users"`
}

// NewFileRealm creates a new file-based realm. A missing file is created
// with a default guest user.
func NewFileRealm(filePath string, log *zap.Logger) (*FileRealm, error) {
	if log == nil {
		log = zap.NewNop()
	}
	realm := &FileRealm{
		filePath: filePath,
		users:    make(map[string]*UserEntry),
		log:      log,
	}

	if err := realm.load(); err != nil {
		return nil, fmt.Errorf("failed to load realm file: %w", err)
	}

	return realm, nil
}

// load reads and parses the realm file
func (f *FileRealm) load() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	data, err := os.ReadFile(f.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// Create default realm file with guest user
			return f.createDefaultFile()
		}
		return fmt.Errorf("failed to read realm file: %w", err)
	}

	var realmFile RealmFile
	if err := json.Unmarshal(data, &realmFile); err != nil {
		return fmt.Errorf("failed to parse realm file: %w", err)
	}

	// Build user map
	f.users = make(map[string]*UserEntry)
	for i := range realmFile.Users {
		user := &realmFile.Users[i]
		f.users[user.Username] = user
	}

	f.log.Debug("Realm file loaded",
		zap.String("path", f.filePath),
		zap.Int("users", len(f.users)))

	return nil
}

// createDefaultFile creates a default realm file with guest user
func (f *FileRealm) createDefaultFile() error {
	// Create bcrypt hash for "guest" password
	hash, err := bcrypt.GenerateFromPassword([]byte("guest"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash default password: %w", err)
	}

	defaultFile := RealmFile{
		Users: []UserEntry{
			{
				Username:     "guest",
				PasswordHash: string(hash),
				Groups:       []string{"guest"},
				Attributes: map[string][]string{
					"created": {"default"},
				},
			},
		},
	}

	data, err := json.MarshalIndent(defaultFile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal default realm file: %w", err)
	}

	if err := os.WriteFile(f.filePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write default realm file: %w", err)
	}

	f.log.Info("Created default realm file", zap.String("path", f.filePath))

	// Load the default file
	f.users = make(map[string]*UserEntry)
	for i := range defaultFile.Users {
		user := &defaultFile.Users[i]
		f.users[user.Username] = user
	}

	return nil
}

// OpenIdentity opens an identity handle for a candidate name. The handle
// exists even when no matching user is stored; credential queries against
// it report Unsupported.
func (f *FileRealm) OpenIdentity(name string) (Identity, error) {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	identity := &fileIdentity{name: name}
	if entry, exists := f.users[name]; exists {
		// Snapshot the entry so a concurrent reload cannot mutate an open handle
		copied := *entry
		identity.entry = &copied
	}
	return identity, nil
}

// Reload reloads the realm file from disk
func (f *FileRealm) Reload() error {
	return f.load()
}

// fileIdentity is an open lookup handle for one candidate name
type fileIdentity struct {
	name     string
	entry    *UserEntry // nil if the user is not stored
	disposed atomic.Bool
}

func (i *fileIdentity) Principal() (Principal, error) {
	return NamePrincipal(i.name), nil
}

func (i *fileIdentity) CredentialSupport(kind credential.Kind) (credential.SupportLevel, error) {
	if i.entry == nil {
		return credential.Unsupported, nil
	}

	switch kind {
	case credential.KindPlainPassword:
		if i.entry.Password != "" {
			return credential.FullySupported, nil
		}
		if i.entry.PasswordHash != "" {
			return credential.DefinitelyVerifiable, nil
		}
	case credential.KindReversiblePassword:
		if i.entry.Password != "" {
			return credential.FullySupported, nil
		}
	case credential.KindBcryptHash:
		if i.entry.PasswordHash != "" {
			return credential.DefinitelyObtainable, nil
		}
	}
	return credential.Unsupported, nil
}

func (i *fileIdentity) Credential(kind credential.Kind) (credential.Credential, error) {
	if i.entry == nil {
		return nil, nil
	}

	switch kind {
	case credential.KindPlainPassword:
		if i.entry.Password != "" {
			return credential.NewPlain([]byte(i.entry.Password)), nil
		}
	case credential.KindReversiblePassword:
		if i.entry.Password != "" {
			return credential.NewClearPassword([]byte(i.entry.Password)), nil
		}
	case credential.KindBcryptHash:
		if i.entry.PasswordHash != "" {
			return credential.NewBcryptHash([]byte(i.entry.PasswordHash)), nil
		}
	}
	return nil, nil
}

func (i *fileIdentity) VerifyCredential(cred credential.Credential) (bool, error) {
	if i.entry == nil || cred == nil {
		return false, nil
	}

	reversible, ok := cred.(credential.Reversible)
	if !ok {
		// One-way credential kinds cannot be verified by comparison
		return false, nil
	}

	clear, err := reversible.ClearText()
	if err != nil {
		return false, nil
	}

	if i.entry.PasswordHash != "" {
		err := bcrypt.CompareHashAndPassword([]byte(i.entry.PasswordHash), clear)
		return err == nil, nil
	}
	if i.entry.Password != "" {
		return subtle.ConstantTimeCompare([]byte(i.entry.Password), clear) == 1, nil
	}
	return false, nil
}

func (i *fileIdentity) AuthorizationIdentity() (AuthorizationIdentity, error) {
	if i.entry == nil {
		return nil, fmt.Errorf("user not found: %s", i.name)
	}
	return &fileAuthorizationIdentity{
		principal:  NamePrincipal(i.entry.Username),
		groups:     i.entry.Groups,
		attributes: i.entry.Attributes,
	}, nil
}

func (i *fileIdentity) Dispose() {
	i.disposed.Store(true)
}

// fileAuthorizationIdentity is the materialized result of a successful
// authentication against a file realm
type fileAuthorizationIdentity struct {
	principal  Principal
	groups     []string
	attributes map[string][]string
}

func (a *fileAuthorizationIdentity) Principal() Principal {
	return a.principal
}

func (a *fileAuthorizationIdentity) Attributes() map[string][]string {
	attrs := make(map[string][]string, len(a.attributes)+1)
	for key, values := range a.attributes {
		attrs[key] = values
	}
	if len(a.groups) > 0 {
		attrs["groups"] = a.groups
	}
	return attrs
}
