package crypto

import (
	"golang.org/x/crypto/argon2"
)

// Argon2id cost parameters. These are interoperability constants: every
// client version must derive the identical key from the same identifier
// and password, so they must never change without a storage version bump.
const (
	argonTime    uint32 = 3
	argonMemory  uint32 = 64 * 1024 // KiB
	argonThreads uint8  = 1
)

// DeriveKey runs Argon2id over secret and salt with the fixed cost
// parameters, producing a 32-byte symmetric key. The derivation is pure:
// identical inputs always yield identical output.
func DeriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, argonTime, argonMemory, argonThreads, KeySize)
}
