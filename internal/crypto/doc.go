// Package crypto provides the cryptographic primitives for the yeetfile
// client: AES-256-GCM authenticated encryption, RSA-OAEP key wrapping,
// and Argon2id password-based key derivation.
//
// # Wire formats
//
// Every symmetric ciphertext is self-contained:
//
//	nonce(12) || ciphertext || tag(16)
//
// RSA-OAEP envelopes carry no nonce; the wrapped key is the whole payload.
// Key material only ever crosses a process boundary in one of these two
// envelope forms, never as raw bytes.
//
// # Cost parameters
//
// Argon2id runs with t=3, m=64MiB, p=1 and 32-byte output. These values
// are shared interoperability constants across client versions: changing
// them changes every derived key.
package crypto
