package server

import "time"

// VaultFolder is the server's view of one folder. The server only ever
// sees the encrypted name and the wrapped key envelope; it cannot open
// either. Fields are fixed: nothing may be attached to a folder record
// beyond what is declared here.
type VaultFolder struct {
	// ID is the server-assigned folder id.
	ID string `json:"id"`

	// RefID is the logical id recipients of a share use to address the
	// folder. It may differ from ID.
	RefID string `json:"refId"`

	// ParentID is empty for a root folder.
	ParentID string `json:"parentId"`

	// Name is the hex-encoded AES-GCM envelope of the folder name,
	// encrypted under the folder's own key.
	Name string `json:"name"`

	// ProtectedKey wraps the folder key: RSA-OAEP under the viewer's
	// public key for a root or directly-shared folder, AES-GCM under the
	// parent folder key otherwise.
	ProtectedKey []byte `json:"protectedKey"`

	IsOwner    bool   `json:"isOwner"`
	CanModify  bool   `json:"canModify"`
	SharedWith int    `json:"sharedWith"`
	SharedBy   string `json:"sharedBy,omitempty"`
}

// VaultItem is the server's view of one file or password entry.
type VaultItem struct {
	ID       string `json:"id"`
	RefID    string `json:"refId"`
	FolderID string `json:"folderId"`

	// Name is the hex-encoded AES-GCM envelope of the item name.
	Name string `json:"name"`

	// ProtectedKey wraps the item key under the containing folder's key
	// (or the viewer's public key for items in the root).
	ProtectedKey []byte `json:"protectedKey"`

	Size   int64 `json:"size"`
	Chunks int   `json:"chunks"`

	// PasswordData, present only for password-vault entries, is an
	// AES-GCM envelope of a serialized credential record encrypted under
	// the item's own key.
	PasswordData []byte `json:"passwordData,omitempty"`

	IsOwner    bool   `json:"isOwner"`
	CanModify  bool   `json:"canModify"`
	SharedWith int    `json:"sharedWith"`
	SharedBy   string `json:"sharedBy,omitempty"`
}

// FolderListing is the response to a folder fetch. KeySequence is the
// unbroken chain of wrapped keys from the viewer's root down to (but not
// including) the listed folder, root-first. It is used only for key
// resolution and never persisted client-side.
type FolderListing struct {
	Folder      VaultFolder   `json:"folder"`
	Folders     []VaultFolder `json:"folders"`
	Items       []VaultItem   `json:"items"`
	KeySequence [][]byte      `json:"keySequence"`
}

// ShareGrant is a per-recipient re-wrapped copy of a folder or item key.
// The owner's own access is never represented as a grant; it is always
// reachable through the normal key chain.
type ShareGrant struct {
	ID       string `json:"id"`
	Grantee  string `json:"grantee"`
	TargetID string `json:"targetId"`

	// WrappedKey is the target's raw key wrapped RSA-OAEP under the
	// grantee's public key.
	WrappedKey []byte `json:"wrappedKey"`

	CanModify bool `json:"canModify"`
}

// UploadMetadata is submitted before any chunk of a vault upload. The
// server assigns a transfer id and finalizes the object on receipt of the
// last chunk index.
type UploadMetadata struct {
	// Name is the hex-encoded encrypted item name.
	Name string `json:"name"`

	Chunks int   `json:"chunks"`
	Size   int64 `json:"size"`

	// ProtectedKey wraps the content key under the parent folder's key.
	ProtectedKey []byte `json:"protectedKey"`

	FolderID string `json:"folderId"`

	// PasswordData is set only for password-vault entries.
	PasswordData []byte `json:"passwordData,omitempty"`
}

// SendMetadata is submitted before any chunk of an ephemeral send. Salt
// is the only key-derivation input the server ever sees; the pepper
// travels exclusively in the share URL's fragment.
type SendMetadata struct {
	Name          string    `json:"name"`
	Chunks        int       `json:"chunks"`
	Size          int64     `json:"size"`
	Salt          []byte    `json:"salt,omitempty"`
	Expiration    time.Time `json:"expiration,omitempty"`
	MaxDownloads  int       `json:"maxDownloads,omitempty"`
	PasswordBound bool      `json:"passwordBound"`
}

// Account is the signup/login payload. Verifier is the login hash derived
// from the user key; the password itself never reaches the server.
// WrappedPrivateKey is the identity private key wrapped under the user
// key; PublicKey is plaintext PKIX DER.
type Account struct {
	Identifier        string `json:"identifier"`
	Verifier          []byte `json:"verifier"`
	WrappedPrivateKey []byte `json:"wrappedPrivateKey"`
	PublicKey         []byte `json:"publicKey"`
}
