package session

import (
	"context"
	"crypto/rsa"
	"fmt"
	"io"

	"github.com/skynet-05/yeetfile-sub000/internal/crypto"
	"github.com/skynet-05/yeetfile-sub000/internal/identity"
	"github.com/skynet-05/yeetfile-sub000/internal/keychain"
	"github.com/skynet-05/yeetfile-sub000/internal/keyvault"
	"github.com/skynet-05/yeetfile-sub000/internal/server"
	"github.com/skynet-05/yeetfile-sub000/internal/sharing"
	"github.com/skynet-05/yeetfile-sub000/internal/transfer"
)

// Session is the explicit context for every vault operation: the unlocked
// identity key pair plus the server connection. It is owned by the
// caller and passed around, never ambient. Discarding it is the only
// "logout" the crypto layer has.
type Session struct {
	Identifier string

	private *rsa.PrivateKey
	public  *rsa.PublicKey

	remote  server.Remote
	engine  *transfer.Engine
	sharing *sharing.Protocol
}

// New assembles a Session from an unlocked key pair.
func New(identifier string, priv *rsa.PrivateKey, pub *rsa.PublicKey, remote server.Remote) *Session {
	return &Session{
		Identifier: identifier,
		private:    priv,
		public:     pub,
		remote:     remote,
		engine:     transfer.New(remote),
		sharing:    sharing.New(remote),
	}
}

// Signup creates a new account: derives the user key and login verifier,
// generates the identity key pair, wraps the private key under the user
// key for server-side escrow, and caches the pair in the local vault.
// The password itself never leaves this function.
func Signup(ctx context.Context, remote server.Remote, vault *keyvault.Vault, identifier, password string, vaultPassword []byte) (*Session, error) {
	userKey, err := identity.DeriveUserKey(identifier, password)
	if err != nil {
		return nil, err
	}
	verifier, err := identity.DeriveLoginVerifier(userKey, password)
	if err != nil {
		return nil, err
	}

	priv, err := identity.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	wrappedPriv, err := crypto.Encrypt(userKey, crypto.MarshalPrivateKey(priv))
	if err != nil {
		return nil, fmt.Errorf("wrapping private key for escrow: %w", err)
	}
	publicDER, err := crypto.MarshalPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, err
	}

	account := server.Account{
		Identifier:        identifier,
		Verifier:          verifier,
		WrappedPrivateKey: wrappedPriv,
		PublicKey:         publicDER,
	}
	if err := remote.Signup(ctx, account); err != nil {
		return nil, err
	}

	if err := vault.Store(priv, vaultPassword); err != nil {
		return nil, err
	}
	return New(identifier, priv, &priv.PublicKey, remote), nil
}

// Login authenticates with the derived verifier, unwraps the escrowed
// private key with the user key, and caches the pair in the local vault
// for future Unlock calls.
func Login(ctx context.Context, remote server.Remote, vault *keyvault.Vault, identifier, password string, vaultPassword []byte) (*Session, error) {
	userKey, err := identity.DeriveUserKey(identifier, password)
	if err != nil {
		return nil, err
	}
	verifier, err := identity.DeriveLoginVerifier(userKey, password)
	if err != nil {
		return nil, err
	}

	account, err := remote.Login(ctx, identifier, verifier)
	if err != nil {
		return nil, err
	}

	privateDER, err := crypto.Decrypt(userKey, account.WrappedPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("unwrapping escrowed private key: %w", err)
	}
	priv, err := crypto.ParsePrivateKey(privateDER)
	if err != nil {
		return nil, err
	}

	if err := vault.Store(priv, vaultPassword); err != nil {
		return nil, err
	}
	return New(identifier, priv, &priv.PublicKey, remote), nil
}

// Unlock opens a Session from the local vault without contacting the
// server for key material.
func Unlock(vault *keyvault.Vault, identifier string, vaultPassword []byte, remote server.Remote) (*Session, error) {
	priv, pub, err := vault.Unlock(vaultPassword)
	if err != nil {
		return nil, err
	}
	return New(identifier, priv, pub, remote), nil
}

// ResolvedFolder is a folder whose symmetric key has been resolved. The
// root has no key of its own: items and folders directly under it are
// wrapped with the session's public key instead.
type ResolvedFolder struct {
	ID  string
	Key []byte
}

// IsRoot reports whether this is the viewer's root.
func (f *ResolvedFolder) IsRoot() bool {
	return f.ID == ""
}

// FetchFolder retrieves a folder listing and resolves the folder's key by
// walking the server-supplied key sequence. Fetching the root ("") needs
// no resolution.
func (s *Session) FetchFolder(ctx context.Context, folderID string) (*server.FolderListing, *ResolvedFolder, error) {
	listing, err := s.remote.FetchFolder(ctx, folderID)
	if err != nil {
		return nil, nil, err
	}
	if folderID == "" {
		return listing, &ResolvedFolder{}, nil
	}

	key, err := s.resolveFolderKey(&listing.Folder, listing.KeySequence)
	if err != nil {
		return nil, nil, err
	}
	return listing, &ResolvedFolder{ID: listing.Folder.ID, Key: key}, nil
}

// resolveFolderKey turns a folder record plus its key sequence into the
// folder's own symmetric key. An empty sequence means the folder is an
// entry point for this viewer (root-level or directly shared) and its
// protected key is wrapped under the viewer's public key; otherwise the
// sequence resolves to the parent folder's key, which unwraps the final
// hop.
func (s *Session) resolveFolderKey(folder *server.VaultFolder, keySequence [][]byte) ([]byte, error) {
	if len(keySequence) == 0 {
		return keychain.UnwrapRootKey(s.private, folder.ProtectedKey)
	}
	parentKey, err := keychain.Resolve(s.private, keySequence)
	if err != nil {
		return nil, err
	}
	return keychain.UnwrapFolderKey(parentKey, folder.ProtectedKey)
}

// ChildFolderKey unwraps a subfolder's key using its resolved parent.
func (s *Session) ChildFolderKey(parent *ResolvedFolder, sub *server.VaultFolder) ([]byte, error) {
	if parent.IsRoot() {
		return keychain.UnwrapRootKey(s.private, sub.ProtectedKey)
	}
	return keychain.UnwrapFolderKey(parent.Key, sub.ProtectedKey)
}

// ItemKey unwraps an item's content key using its containing folder.
func (s *Session) ItemKey(folder *ResolvedFolder, item *server.VaultItem) ([]byte, error) {
	if folder.IsRoot() {
		return keychain.UnwrapRootKey(s.private, item.ProtectedKey)
	}
	return keychain.UnwrapFolderKey(folder.Key, item.ProtectedKey)
}

// CreateFolder generates a fresh folder key, wraps it for the parent
// (public key at the root, parent folder key below), encrypts the name
// under the new key, and submits the record.
func (s *Session) CreateFolder(ctx context.Context, parent *ResolvedFolder, name string) (string, error) {
	folderKey, err := crypto.GenerateKey()
	if err != nil {
		return "", err
	}

	protectedKey, err := s.wrapForParent(parent, folderKey)
	if err != nil {
		return "", err
	}
	encName, err := EncryptName(folderKey, name)
	if err != nil {
		return "", err
	}

	folder := server.VaultFolder{
		ParentID:     parent.ID,
		Name:         encName,
		ProtectedKey: protectedKey,
	}
	return s.remote.CreateFolder(ctx, folder)
}

// RenameFolder re-encrypts the name under the folder's existing key. The
// key itself never changes on rename.
func (s *Session) RenameFolder(ctx context.Context, folder *ResolvedFolder, name string) error {
	encName, err := EncryptName(folder.Key, name)
	if err != nil {
		return err
	}
	return s.remote.RenameFolder(ctx, folder.ID, encName)
}

// DeleteFolder discards the folder server-side. No client-side tombstone
// is kept.
func (s *Session) DeleteFolder(ctx context.Context, folderID string) error {
	return s.remote.DeleteFolder(ctx, folderID)
}

// DeleteItem discards an item and its chunks server-side.
func (s *Session) DeleteItem(ctx context.Context, itemID string) error {
	return s.remote.DeleteItem(ctx, itemID)
}

// UploadFile encrypts and uploads a file into the given folder, chunked
// and keyed under a fresh random content key.
func (s *Session) UploadFile(ctx context.Context, folder *ResolvedFolder, name string, src io.Reader, size int64) (*transfer.Transfer, error) {
	itemKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}

	meta, err := s.uploadMetadata(folder, itemKey, name)
	if err != nil {
		return nil, err
	}
	return s.engine.Upload(ctx, *meta, itemKey, src, size)
}

// UploadCredential stores a password-vault entry: a zero-length content
// stream whose credential record rides along as an encrypted envelope in
// the item metadata.
func (s *Session) UploadCredential(ctx context.Context, folder *ResolvedFolder, name string, cred *Credential) (*transfer.Transfer, error) {
	itemKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}

	meta, err := s.uploadMetadata(folder, itemKey, name)
	if err != nil {
		return nil, err
	}
	meta.PasswordData, err = cred.Seal(itemKey)
	if err != nil {
		return nil, err
	}
	return s.engine.Upload(ctx, *meta, itemKey, emptyReader{}, 0)
}

func (s *Session) uploadMetadata(folder *ResolvedFolder, itemKey []byte, name string) (*server.UploadMetadata, error) {
	protectedKey, err := s.wrapForParent(folder, itemKey)
	if err != nil {
		return nil, err
	}
	encName, err := EncryptName(itemKey, name)
	if err != nil {
		return nil, err
	}
	return &server.UploadMetadata{
		Name:         encName,
		ProtectedKey: protectedKey,
		FolderID:     folder.ID,
	}, nil
}

// DownloadItem streams an item's plaintext into dst.
func (s *Session) DownloadItem(ctx context.Context, folder *ResolvedFolder, item *server.VaultItem, dst io.Writer) (*transfer.Transfer, error) {
	itemKey, err := s.ItemKey(folder, item)
	if err != nil {
		return nil, err
	}
	return s.engine.Download(ctx, item.ID, item.Chunks, itemKey, dst)
}

// PreviewItem fetches a small item entirely into memory.
func (s *Session) PreviewItem(ctx context.Context, folder *ResolvedFolder, item *server.VaultItem) ([]byte, error) {
	itemKey, err := s.ItemKey(folder, item)
	if err != nil {
		return nil, err
	}
	return s.engine.Preview(ctx, item.ID, item.Chunks, itemKey)
}

// ShareFolder re-wraps a resolved folder key for a recipient. The
// precondition that the raw key is already in hand is what keeps sharing
// independent of the key chain: the recipient gets their own entry point.
func (s *Session) ShareFolder(ctx context.Context, folder *ResolvedFolder, recipient string, canModify bool) (*server.ShareGrant, error) {
	pub, err := s.sharing.LookupRecipient(ctx, recipient)
	if err != nil {
		return nil, err
	}
	return s.sharing.Share(ctx, folder.ID, recipient, folder.Key, pub, canModify)
}

// ShareItem re-wraps an item's content key for a recipient.
func (s *Session) ShareItem(ctx context.Context, folder *ResolvedFolder, item *server.VaultItem, recipient string, canModify bool) (*server.ShareGrant, error) {
	itemKey, err := s.ItemKey(folder, item)
	if err != nil {
		return nil, err
	}
	pub, err := s.sharing.LookupRecipient(ctx, recipient)
	if err != nil {
		return nil, err
	}
	return s.sharing.Share(ctx, item.RefID, recipient, itemKey, pub, canModify)
}

// ChangePermission updates a grant's modify flag.
func (s *Session) ChangePermission(ctx context.Context, grantID string, canModify bool) error {
	return s.sharing.ChangePermission(ctx, grantID, canModify)
}

// Revoke deletes a grant. The underlying content key is not rotated:
// whoever resolved it before revocation keeps it. That limitation is part
// of the protocol, not an oversight.
func (s *Session) Revoke(ctx context.Context, grantID string) error {
	return s.sharing.Revoke(ctx, grantID)
}

// wrapForParent wraps a fresh key for storage under the parent context:
// RSA-OAEP under the session public key at the root, AES-GCM under the
// parent folder key everywhere else.
func (s *Session) wrapForParent(parent *ResolvedFolder, key []byte) ([]byte, error) {
	if parent.IsRoot() {
		return crypto.EncryptRSA(s.public, key)
	}
	return crypto.Encrypt(parent.Key, key)
}

type emptyReader struct{}

func (emptyReader) Read(p []byte) (int, error) {
	return 0, io.EOF
}
