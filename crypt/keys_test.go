package crypt

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"testing"
)

// memorySecrets is an in-memory SecretStore used across the package tests.
type memorySecrets struct {
	mu      sync.Mutex
	entries map[string]string
	sets    int
	gets    int
	fail    bool
}

func (s *memorySecrets) Get(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return "", errors.New("keychain unavailable")
	}
	s.gets++
	secret, ok := s.entries[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
	}
	return secret, nil
}

func (s *memorySecrets) Set(name, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("keychain unavailable")
	}
	s.sets++
	if s.entries == nil {
		s.entries = make(map[string]string)
	}
	s.entries[name] = secret
	return nil
}

func TestKeyManager_GeneratesAndPersists(t *testing.T) {
	secrets := &memorySecrets{}
	m := NewKeyManager(secrets, DefaultKeyName)

	key, err := m.Key()
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	if len(key) != KeySize {
		t.Errorf("expected %d-byte key, got %d", KeySize, len(key))
	}
	if secrets.sets != 1 {
		t.Errorf("expected one secret store write, got %d", secrets.sets)
	}

	// A fresh manager over the same store must load the identical key.
	key2, err := NewKeyManager(secrets, DefaultKeyName).Key()
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	if !bytes.Equal(key, key2) {
		t.Error("second manager loaded a different key")
	}
}

func TestKeyManager_CachesKey(t *testing.T) {
	secrets := &memorySecrets{}
	m := NewKeyManager(secrets, DefaultKeyName)

	if _, err := m.Key(); err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	if _, err := m.Key(); err != nil {
		t.Fatalf("Key failed: %v", err)
	}

	if secrets.gets != 1 {
		t.Errorf("expected one secret store read, got %d", secrets.gets)
	}
}

func TestKeyManager_ClearCachedKey(t *testing.T) {
	secrets := &memorySecrets{}
	m := NewKeyManager(secrets, DefaultKeyName)

	key, err := m.Key()
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}

	m.ClearCachedKey()

	reloaded, err := m.Key()
	if err != nil {
		t.Fatalf("Key after clear failed: %v", err)
	}
	if !bytes.Equal(key, reloaded) {
		t.Error("expected the persisted key to be reloaded after clearing the cache")
	}
	if secrets.sets != 1 {
		t.Errorf("expected no second key generation, got %d writes", secrets.sets)
	}
}

func TestKeyManager_EphemeralFallback(t *testing.T) {
	m := NewKeyManager(&memorySecrets{fail: true}, DefaultKeyName)

	key, err := m.Key()
	if err != nil {
		t.Fatalf("expected ephemeral fallback, got error: %v", err)
	}
	if len(key) != KeySize {
		t.Errorf("expected %d-byte key, got %d", KeySize, len(key))
	}

	// The ephemeral key stays stable for the process lifetime.
	key2, err := m.Key()
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	if !bytes.Equal(key, key2) {
		t.Error("ephemeral key changed between calls")
	}
}

func TestKeyManager_NoSecretStore(t *testing.T) {
	m := NewKeyManager(nil, DefaultKeyName)

	key, err := m.Key()
	if err != nil {
		t.Fatalf("expected ephemeral key without a secret store, got error: %v", err)
	}
	if len(key) != KeySize {
		t.Errorf("expected %d-byte key, got %d", KeySize, len(key))
	}
}

func TestKeyManager_ConcurrentFirstUse(t *testing.T) {
	secrets := &memorySecrets{}
	m := NewKeyManager(secrets, DefaultKeyName)

	const goroutines = 16
	keys := make([][]byte, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			key, err := m.Key()
			if err != nil {
				t.Errorf("Key failed: %v", err)
				return
			}
			keys[i] = key
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		if !bytes.Equal(keys[0], keys[i]) {
			t.Fatalf("goroutine %d observed a different key", i)
		}
	}
	if secrets.sets > 1 {
		t.Errorf("expected at most one key generation, got %d writes", secrets.sets)
	}
}
