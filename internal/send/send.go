// Package send implements the account-free "send" keying scheme: a
// one-time bearer secret carried in a share URL's fragment.
//
// The pepper is a random value generated client-side and placed only in
// the URL fragment, which browsers never transmit to servers. With no
// password the pepper is the content key itself; with a password the key
// is derived from password, pepper, and a random salt. The server stores
// only ciphertext and, for password-bound sends, the salt, so even a fully
// compromised server can never derive the key unilaterally.
package send

import (
	"encoding/base64"
	"fmt"

	"github.com/skynet-05/yeetfile-sub000/internal/crypto"
	yerrors "github.com/skynet-05/yeetfile-sub000/internal/errors"
)

const (
	saltSize   = 16
	pepperSize = 16
)

// Secret is the sender's side of an ephemeral share: the content key plus
// the material the recipient needs to reconstruct it.
type Secret struct {
	// Key encrypts the send's chunks.
	Key []byte

	// Salt is sent to the server with the metadata. Empty for
	// passwordless sends.
	Salt []byte

	// Pepper goes only into the URL fragment, never to the server. For a
	// passwordless send the pepper is the raw key itself.
	Pepper []byte

	// PasswordBound records whether a password participates in the
	// derivation.
	PasswordBound bool
}

// Create generates the keying material for a new send. With an empty
// password the key is random and the fragment is the raw key; with a
// password the key is Argon2id over password and pepper against a random
// salt, so the recipient needs both the fragment and the password.
func Create(password string) (*Secret, error) {
	if password == "" {
		key, err := crypto.GenerateKey()
		if err != nil {
			return nil, err
		}
		return &Secret{Key: key, Pepper: key}, nil
	}

	salt, err := crypto.RandomBytes(saltSize)
	if err != nil {
		return nil, err
	}
	pepper, err := crypto.RandomBytes(pepperSize)
	if err != nil {
		return nil, err
	}
	return &Secret{
		Key:           deriveKey(password, salt, pepper),
		Salt:          salt,
		Pepper:        pepper,
		PasswordBound: true,
	}, nil
}

// Fragment renders the URL fragment for the share link. It is the only
// place the pepper appears.
func (s *Secret) Fragment() string {
	return base64.RawURLEncoding.EncodeToString(s.Pepper)
}

// Resolve reconstructs the content key on the recipient's side from the
// password (may be empty), the server-provided salt, and the pepper
// decoded from the URL fragment. The derivation is deterministic: the
// same inputs always rebuild the identical key.
func Resolve(password string, salt, pepper []byte) ([]byte, error) {
	if password == "" {
		if len(pepper) != crypto.KeySize {
			return nil, fmt.Errorf("bearer key has length %d: %w", len(pepper), yerrors.ErrKeyDerivation)
		}
		return pepper, nil
	}
	if len(salt) == 0 {
		return nil, fmt.Errorf("password-bound send is missing its salt: %w", yerrors.ErrKeyDerivation)
	}
	return deriveKey(password, salt, pepper), nil
}

// ParseFragment decodes a URL fragment back into the pepper.
func ParseFragment(fragment string) ([]byte, error) {
	pepper, err := base64.RawURLEncoding.DecodeString(fragment)
	if err != nil {
		return nil, fmt.Errorf("malformed share fragment: %w", err)
	}
	return pepper, nil
}

func deriveKey(password string, salt, pepper []byte) []byte {
	secret := make([]byte, 0, len(password)+len(pepper))
	secret = append(secret, []byte(password)...)
	secret = append(secret, pepper...)
	return crypto.DeriveKey(secret, salt)
}
