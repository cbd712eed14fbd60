package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"

	yerrors "github.com/skynet-05/yeetfile-sub000/internal/errors"
)

const (
	// KeySize is the length of every symmetric key in the system (AES-256).
	KeySize = 32

	// NonceSize is the GCM nonce length prepended to every symmetric ciphertext.
	NonceSize = 12

	// TagSize is the GCM authentication tag length appended by Seal.
	TagSize = 16

	// Overhead is the total size added to a plaintext by Encrypt.
	Overhead = NonceSize + TagSize

	// RSAKeyBits is the identity key pair modulus size.
	RSAKeyBits = 2048
)

// GenerateKey returns a fresh random 32-byte symmetric key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate symmetric key: %w", err)
	}
	return key, nil
}

// RandomBytes returns n cryptographically random bytes.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return b, nil
}

// Encrypt seals plaintext with AES-256-GCM under a fresh random nonce.
// Output layout: nonce(12) || ciphertext || tag(16). Two encryptions of
// the same plaintext never produce the same output.
func Encrypt(key, plaintext []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Seal appends to the nonce so the output carries it as a prefix.
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a nonce-prefixed AES-256-GCM ciphertext. Authentication
// failure is reported as ErrCorruptData; it is never returned as garbage
// plaintext. Callers that know the failure means a wrong password map it
// to the appropriate authentication error themselves.
func Decrypt(key, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < Overhead {
		return nil, fmt.Errorf("ciphertext too short (%d bytes): %w", len(ciphertext), yerrors.ErrCorruptData)
	}

	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, ciphertext[:NonceSize], ciphertext[NonceSize:], nil)
	if err != nil {
		return nil, yerrors.ErrCorruptData
	}
	return plaintext, nil
}

// EncryptRSA wraps a symmetric key under an RSA public key with OAEP/SHA-256.
func EncryptRSA(pub *rsa.PublicKey, key []byte) ([]byte, error) {
	wrapped, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap key with public key: %w", err)
	}
	return wrapped, nil
}

// DecryptRSA unwraps an RSA-OAEP/SHA-256 wrapped key. A decryption
// failure means the envelope was not produced for this key pair and is
// reported as ErrCorruptData.
func DecryptRSA(priv *rsa.PrivateKey, wrapped []byte) ([]byte, error) {
	key, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, priv, wrapped, nil)
	if err != nil {
		return nil, yerrors.ErrCorruptData
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("expected %d-byte key, got %d bytes: %w",
			KeySize, len(key), yerrors.ErrInvalidKeyLength)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
