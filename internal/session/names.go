package session

import (
	"encoding/hex"
	"fmt"

	"github.com/skynet-05/yeetfile-sub000/internal/crypto"
)

// EncryptName encrypts a folder or item name under its key and
// hex-encodes the envelope for JSON transport.
func EncryptName(key []byte, name string) (string, error) {
	envelope, err := crypto.Encrypt(key, []byte(name))
	if err != nil {
		return "", fmt.Errorf("encrypting name: %w", err)
	}
	return hex.EncodeToString(envelope), nil
}

// DecryptName reverses EncryptName.
func DecryptName(key []byte, encName string) (string, error) {
	envelope, err := hex.DecodeString(encName)
	if err != nil {
		return "", fmt.Errorf("name is not valid hex: %w", err)
	}
	name, err := crypto.Decrypt(key, envelope)
	if err != nil {
		return "", fmt.Errorf("decrypting name: %w", err)
	}
	return string(name), nil
}
