package server

import "context"

// Remote is the client's view of the untrusted server: an opaque
// encrypted-blob store and relay. Every payload crossing this boundary is
// either public (public keys, ids, counts) or an envelope the server
// cannot open. Implementations must not retry failed calls; retry policy
// belongs to the caller.
type Remote interface {
	// Signup registers an account, storing the verifier, the wrapped
	// private key, and the plaintext public key.
	Signup(ctx context.Context, account Account) error

	// Login authenticates with a verifier and returns the stored account
	// record, including the wrapped private key for local unwrapping.
	// A wrong verifier surfaces as ErrInvalidLoginPassword.
	Login(ctx context.Context, identifier string, verifier []byte) (*Account, error)

	// CreateFolder stores a new folder record and returns its id.
	CreateFolder(ctx context.Context, folder VaultFolder) (string, error)

	// FetchFolder returns a folder, its children, and the key sequence
	// from the viewer's root down to it. An empty id fetches the root.
	FetchFolder(ctx context.Context, folderID string) (*FolderListing, error)

	// RenameFolder replaces a folder's encrypted name. The folder key is
	// unchanged, so no key material moves.
	RenameFolder(ctx context.Context, folderID, name string) error

	// DeleteFolder discards a folder record and its contents.
	DeleteFolder(ctx context.Context, folderID string) error

	// InitUpload submits vault upload metadata and returns the
	// server-assigned transfer id. It must succeed before any chunk.
	InitUpload(ctx context.Context, meta UploadMetadata) (string, error)

	// UploadChunk stores one encrypted chunk under a 1-based index.
	// Receipt of the final index finalizes the object.
	UploadChunk(ctx context.Context, transferID string, index int, data []byte) error

	// DownloadChunk fetches one encrypted chunk by 1-based index.
	DownloadChunk(ctx context.Context, itemID string, index int) ([]byte, error)

	// DeleteItem discards an item's metadata and chunks.
	DeleteItem(ctx context.Context, itemID string) error

	// CreateGrant stores a share grant and returns its server-assigned id.
	CreateGrant(ctx context.Context, grant ShareGrant) (string, error)

	// UpdateGrant changes only the grant's modify flag.
	UpdateGrant(ctx context.Context, grantID string, canModify bool) error

	// DeleteGrant removes a grant, destroying the grantee's only wrapped
	// copy of the key.
	DeleteGrant(ctx context.Context, grantID string) error

	// PublicKey looks up a recipient's public key (PKIX DER) by
	// identifier.
	PublicKey(ctx context.Context, identifier string) ([]byte, error)

	// InitSend submits send metadata and returns the transfer id, which
	// doubles as the object id for download.
	InitSend(ctx context.Context, meta SendMetadata) (string, error)

	// FetchSend returns a send object's metadata, including the salt
	// needed for password-bound key derivation.
	FetchSend(ctx context.Context, sendID string) (*SendMetadata, error)
}
