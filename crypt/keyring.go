package crypt

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringStore stores secrets in the operating system keychain (macOS
// Keychain, Windows Credential Manager, libsecret on Linux).
type KeyringStore struct {
	// Service is the keychain service name entries are filed under.
	Service string
}

// Get retrieves a secret, mapping the keyring's not-found error to
// ErrSecretNotFound.
func (s *KeyringStore) Get(name string) (string, error) {
	secret, err := keyring.Get(s.Service, name)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read keychain entry: %w", err)
	}
	return secret, nil
}

// Set writes a secret to the keychain.
func (s *KeyringStore) Set(name, secret string) error {
	if err := keyring.Set(s.Service, name, secret); err != nil {
		return fmt.Errorf("failed to write keychain entry: %w", err)
	}
	return nil
}
