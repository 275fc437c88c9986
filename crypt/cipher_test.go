package crypt

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func newTestCipher() *Cipher {
	return NewCipher(NewKeyManager(&memorySecrets{}, DefaultKeyName))
}

func TestCipher_RoundTrip(t *testing.T) {
	c := newTestCipher()

	tests := []struct {
		name      string
		plaintext string
	}{
		{name: "simple ascii", plaintext: "Hello, World!"},
		{name: "cjk and cyrillic", plaintext: "你好世界 Привет мир"},
		{name: "emoji with combining sequences", plaintext: "👩‍👩‍👧‍👦 naïve résumé"},
		{name: "rtl script", plaintext: "مرحبا بالعالم שלום עולם"},
		{name: "special characters", plaintext: "!@#$%^&*()_+-=[]{}|;:'\",.<>?/~`"},
		{name: "whitespace and control", plaintext: "Test \n\t\r line"},
		{name: "long text", plaintext: strings.Repeat("x", 100*1024)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := c.Encrypt(tt.plaintext)
			if err != nil {
				t.Fatalf("Encrypt failed: %v", err)
			}
			if blob == tt.plaintext {
				t.Error("ciphertext equals plaintext")
			}

			decrypted, err := c.Decrypt(blob)
			if err != nil {
				t.Fatalf("Decrypt failed: %v", err)
			}
			if decrypted != tt.plaintext {
				t.Errorf("round trip mismatch: got %q, want %q", decrypted, tt.plaintext)
			}
		})
	}
}

func TestCipher_NonDeterministic(t *testing.T) {
	c := newTestCipher()

	blob1, err := c.Encrypt("Test message")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	blob2, err := c.Encrypt("Test message")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	if blob1 == blob2 {
		t.Error("two encryptions of the same plaintext produced identical blobs")
	}

	for _, blob := range []string{blob1, blob2} {
		decrypted, err := c.Decrypt(blob)
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if decrypted != "Test message" {
			t.Errorf("expected %q, got %q", "Test message", decrypted)
		}
	}
}

func TestCipher_EmptyString(t *testing.T) {
	c := newTestCipher()

	blob, err := c.Encrypt("")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if blob != "" {
		t.Errorf("expected empty blob for empty plaintext, got %q", blob)
	}

	plaintext, err := c.Decrypt("")
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if plaintext != "" {
		t.Errorf("expected empty plaintext for empty blob, got %q", plaintext)
	}
}

func TestCipher_DecryptInvalidInput(t *testing.T) {
	c := newTestCipher()

	valid, err := c.Encrypt("some content")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	// Flip a byte in the middle of the sealed payload.
	raw, err := base64.StdEncoding.DecodeString(valid)
	if err != nil {
		t.Fatalf("failed to decode test blob: %v", err)
	}
	raw[len(raw)/2] ^= 0xff
	tampered := base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name string
		blob string
	}{
		{name: "plain text, not base64", blob: "Unencrypted Title"},
		{name: "valid base64 but too short", blob: base64.StdEncoding.EncodeToString([]byte("short"))},
		{name: "tampered ciphertext", blob: tampered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decrypt(tt.blob)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrDecryptionFailed) {
				t.Errorf("expected ErrDecryptionFailed, got: %v", err)
			}
		})
	}
}

func TestCipher_DecryptWithWrongKey(t *testing.T) {
	c1 := newTestCipher()
	c2 := newTestCipher() // separate secret store, separate key

	blob, err := c1.Encrypt("secret")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	_, err = c2.Decrypt(blob)
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed with wrong key, got: %v", err)
	}
}

func TestCipher_SharedKeyAcrossInstances(t *testing.T) {
	secrets := &memorySecrets{}
	c1 := NewCipher(NewKeyManager(secrets, DefaultKeyName))
	c2 := NewCipher(NewKeyManager(secrets, DefaultKeyName))

	blob, err := c1.Encrypt("persisted across restarts")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	decrypted, err := c2.Decrypt(blob)
	if err != nil {
		t.Fatalf("Decrypt with second instance failed: %v", err)
	}
	if decrypted != "persisted across restarts" {
		t.Errorf("expected original plaintext, got %q", decrypted)
	}
}
