package errors

import "errors"

// Derivation errors indicate bad inputs to a key-derivation primitive.
var (
	// ErrKeyDerivation indicates a key-derivation primitive failed.
	// Derivation is pure, so retrying with the same inputs cannot succeed.
	ErrKeyDerivation = errors.New("key derivation failed")

	// ErrInvalidKeyLength indicates a symmetric key has an unexpected length.
	ErrInvalidKeyLength = errors.New("invalid symmetric key length")
)

// Authentication errors indicate a wrong password rather than damage.
// Callers should re-prompt instead of treating these as fatal.
var (
	// ErrInvalidVaultPassword indicates the vault password failed to
	// unwrap the stored identity private key.
	ErrInvalidVaultPassword = errors.New("invalid vault password")

	// ErrInvalidLoginPassword indicates the login password did not
	// produce the expected verifier.
	ErrInvalidLoginPassword = errors.New("invalid login password")
)

// Integrity errors indicate ciphertext that cannot be trusted. These are
// never downgraded to a generic error: the remediation (report corruption)
// differs from a wrong password (re-prompt) and from a network failure
// (retry at the caller's discretion).
var (
	// ErrKeyChainBroken indicates a link in a wrapped-key chain failed
	// authentication. Resolution of that subtree must be abandoned.
	ErrKeyChainBroken = errors.New("key chain broken")

	// ErrCorruptData indicates a downloaded chunk failed authenticated
	// decryption. The transfer is aborted with no partial output.
	ErrCorruptData = errors.New("corrupt or tampered data")
)

// Transfer errors indicate a chunked upload or download did not complete.
var (
	// ErrTransferAborted indicates the caller cancelled the transfer.
	ErrTransferAborted = errors.New("transfer aborted")

	// ErrRemoteRejected indicates the server returned a non-success
	// response for a metadata, chunk, or grant operation.
	ErrRemoteRejected = errors.New("remote rejected request")
)

// Vault storage errors indicate issues with the local key store.
var (
	// ErrVaultRecordNotFound indicates a local vault record does not exist.
	ErrVaultRecordNotFound = errors.New("vault record not found")

	// ErrVaultNotInitialized indicates no identity key pair has been stored.
	ErrVaultNotInitialized = errors.New("vault has not been initialized")
)

// Lookup errors indicate a referenced entity could not be found.
var (
	// ErrRecipientNotFound indicates no public key is known for the
	// requested recipient identifier.
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrGrantNotFound indicates the share grant does not exist.
	ErrGrantNotFound = errors.New("share grant not found")

	// ErrNotFound indicates the requested folder, item, or send object
	// does not exist on the server.
	ErrNotFound = errors.New("not found")
)
