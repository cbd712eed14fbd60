// Package keyvault is the local encrypted key store gating access to the
// identity private key between sessions.
//
// The private key is held only as an AES-GCM envelope inside a versioned
// TOML record store with three fixed record ids: the wrapped private key,
// the plaintext public key, and the password-protection flag. Mutations
// rewrite the whole store through a temp-file rename, so a failed Store
// can never leave a record that silently decrypts to stale material.
//
// The wrap key comes from either a user-chosen vault password (distinct
// from the login password) run through Argon2id against a fixed
// application salt, or from a random per-device secret kept in a separate
// directory. In both configurations the store file on its own is useless
// to an attacker.
package keyvault
