package identity

import (
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/skynet-05/yeetfile-sub000/internal/crypto"
	yerrors "github.com/skynet-05/yeetfile-sub000/internal/errors"
)

// DeriveUserKey derives the stable symmetric user key from an account
// identifier (email or 16-digit account id) and password. The salt is the
// hex-encoded SHA-256 of the identifier, so the derivation needs no
// stored state: the same identifier and password always reproduce the
// same key. The user key is never persisted; it exists only to wrap and
// unwrap the identity private key in transit.
func DeriveUserKey(identifier, password string) ([]byte, error) {
	if identifier == "" || password == "" {
		return nil, fmt.Errorf("identifier and password must be non-empty: %w", yerrors.ErrKeyDerivation)
	}

	digest := sha256.Sum256([]byte(identifier))
	salt := []byte(hex.EncodeToString(digest[:]))
	return crypto.DeriveKey([]byte(password), salt), nil
}

// DeriveLoginVerifier derives the value transmitted for authentication in
// place of the password. It runs a second Argon2id pass keyed by the
// hex-encoded user key with the plaintext password as salt, then hashes
// the output. The server stores only this verifier; it cannot invert it
// to the user key, so it can never unwrap the private key it holds.
func DeriveLoginVerifier(userKey []byte, password string) ([]byte, error) {
	if len(userKey) != crypto.KeySize {
		return nil, fmt.Errorf("user key must be %d bytes: %w", crypto.KeySize, yerrors.ErrKeyDerivation)
	}
	if password == "" {
		return nil, fmt.Errorf("password must be non-empty: %w", yerrors.ErrKeyDerivation)
	}

	secret := []byte(hex.EncodeToString(userKey))
	stretched := crypto.DeriveKey(secret, []byte(password))
	verifier := sha256.Sum256(stretched)
	return verifier[:], nil
}

// GenerateKeyPair creates the account's RSA-OAEP identity key pair. It is
// generated exactly once at signup and never regenerated; losing the
// wrapped private key means losing the vault.
func GenerateKeyPair() (*rsa.PrivateKey, error) {
	priv, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", yerrors.ErrKeyDerivation, err)
	}
	return priv, nil
}
