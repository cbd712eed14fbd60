// Package errors provides typed error values for the yeetfile client.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. For this
// client the distinction is safety-critical: a wrong vault password, a
// tampered ciphertext, and a network failure all fail an operation, but
// the user-facing remediation is different for each (re-prompt, report
// corruption, retry). Collapsing them into one generic error is the single
// easiest way to make an end-to-end-encrypted client unsafe.
//
// # Error Categories
//
//   - Derivation errors: bad KDF inputs (ErrKeyDerivation)
//   - Authentication errors: wrong password (ErrInvalidVaultPassword)
//   - Integrity errors: untrustworthy ciphertext (ErrKeyChainBroken, ErrCorruptData)
//   - Transfer errors: cancelled or rejected transfers (ErrTransferAborted)
//   - Storage errors: local vault state (ErrVaultNotInitialized)
//
// # Usage
//
// Return errors from internal packages:
//
//	if _, err := aead.Open(nil, nonce, ct, nil); err != nil {
//	    return nil, yerrors.ErrInvalidVaultPassword
//	}
//
// Handle errors in the CLI layer:
//
//	if errors.Is(err, yerrors.ErrInvalidVaultPassword) {
//	    // Re-prompt for the vault password.
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("resolving key for folder %s: %w", folderID, yerrors.ErrKeyChainBroken)
package errors
