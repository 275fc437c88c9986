package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// ErrDecryptionFailed marks input that cannot be decoded as a ciphertext blob
// or fails authentication. Callers check it with errors.Is: a conversation
// title failing this way is read back as a legacy plaintext value, and a
// message failing this way is skipped rather than aborting the whole load.
var ErrDecryptionFailed = errors.New("decryption failed")

// Cipher encrypts and decrypts UTF-8 strings with AES-256-GCM using the key
// manager's process key. Blobs are base64(nonce || ciphertext || tag) and
// carry everything needed to decrypt except the key itself.
type Cipher struct {
	keys *KeyManager
}

// NewCipher creates a cipher drawing its key from the given manager.
func NewCipher(keys *KeyManager) *Cipher {
	return &Cipher{keys: keys}
}

// Encrypt seals plaintext under a fresh random nonce, so two calls with the
// same input produce different blobs. The empty string is returned as-is
// without an encryption round-trip.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	aead, err := c.aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. It returns ErrDecryptionFailed when blob is not
// valid base64, is too short to hold a nonce, or fails authentication (wrong
// key or corrupted data). The empty string decrypts to the empty string.
func (c *Cipher) Decrypt(blob string) (string, error) {
	if blob == "" {
		return "", nil
	}

	aead, err := c.aead()
	if err != nil {
		return "", err
	}

	sealed, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("%w: not valid base64", ErrDecryptionFailed)
	}
	if len(sealed) < aead.NonceSize() {
		return "", fmt.Errorf("%w: blob too short", ErrDecryptionFailed)
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	return string(plaintext), nil
}

func (c *Cipher) aead() (cipher.AEAD, error) {
	key, err := c.keys.Key()
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	return cipher.NewGCM(block)
}
