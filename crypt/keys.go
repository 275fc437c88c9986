// Package crypt provides the encryption layer for locally persisted
// conversation data: a process-lifetime key manager backed by the OS
// keychain, and an AES-256-GCM cipher for UTF-8 strings.
package crypt

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// DefaultKeyName is the secret store entry the encryption key is filed under.
const DefaultKeyName = "encryption-key"

// ErrSecretNotFound is returned by a SecretStore when no secret has ever been
// stored under the requested name.
var ErrSecretNotFound = errors.New("secret not found")

// SecretStore is the narrow contract against external secret storage.
type SecretStore interface {
	Get(name string) (string, error)
	Set(name, secret string) error
}

// KeyManager produces a stable symmetric key for the process lifetime. The
// first call to Key loads the key from the secret store, generating and
// persisting a fresh one if none exists yet. If the secret store is
// unavailable the manager falls back to an ephemeral in-process key: data
// written with it is only readable until the process exits, which is the
// accepted degraded mode rather than an error.
type KeyManager struct {
	mu      sync.Mutex
	key     []byte
	secrets SecretStore
	name    string
}

// NewKeyManager creates a key manager reading and writing the named secret.
func NewKeyManager(secrets SecretStore, name string) *KeyManager {
	return &KeyManager{secrets: secrets, name: name}
}

// Key returns the cached key, loading or generating it on first use. The
// whole load-or-generate path holds the mutex, so concurrent first calls
// observe the same key and at most one key is generated per process.
func (m *KeyManager) Key() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.key != nil {
		return m.key, nil
	}

	if m.secrets != nil {
		if encoded, err := m.secrets.Get(m.name); err == nil {
			if key, err := base64.StdEncoding.DecodeString(encoded); err == nil && len(key) == KeySize {
				m.key = key
				return m.key, nil
			}
		}
	}

	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate encryption key: %w", err)
	}

	if m.secrets != nil {
		// Best effort: if the write fails the key stays ephemeral and data
		// encrypted with it dies with the process.
		_ = m.secrets.Set(m.name, base64.StdEncoding.EncodeToString(key))
	}

	m.key = key
	return m.key, nil
}

// ClearCachedKey drops the in-memory key so the next Key call re-fetches or
// regenerates it. Used by tests and logout/reset flows.
func (m *KeyManager) ClearCachedKey() {
	m.mu.Lock()
	m.key = nil
	m.mu.Unlock()
}
