package server

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	yerrors "github.com/skynet-05/yeetfile-sub000/internal/errors"
)

// Memory is an in-process Remote used by tests and offline runs. It
// behaves like the real server: it stores only envelopes and public keys,
// assigns ids, and finalizes an object when the last chunk index arrives.
// It never inspects ciphertext.
type Memory struct {
	mu sync.Mutex

	accounts map[string]Account
	viewer   string

	folders map[string]*VaultFolder
	items   map[string]*VaultItem

	uploads map[string]*memUpload
	chunks  map[string]map[int][]byte

	grants map[string]*ShareGrant

	sends map[string]*SendMetadata
}

type memUpload struct {
	meta     UploadMetadata
	isSend   bool
	sendMeta SendMetadata
	received map[int]bool
	owner    string
	done     bool
}

// NewMemory returns an empty in-memory server.
func NewMemory() *Memory {
	return &Memory{
		accounts: make(map[string]Account),
		folders:  make(map[string]*VaultFolder),
		items:    make(map[string]*VaultItem),
		uploads:  make(map[string]*memUpload),
		chunks:   make(map[string]map[int][]byte),
		grants:   make(map[string]*ShareGrant),
		sends:    make(map[string]*SendMetadata),
	}
}

func (m *Memory) Signup(ctx context.Context, account Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[account.Identifier]; ok {
		return fmt.Errorf("account %s already exists: %w", account.Identifier, yerrors.ErrRemoteRejected)
	}
	m.accounts[account.Identifier] = account
	m.viewer = account.Identifier
	return nil
}

func (m *Memory) Login(ctx context.Context, identifier string, verifier []byte) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[identifier]
	if !ok {
		return nil, yerrors.ErrNotFound
	}
	if subtle.ConstantTimeCompare(account.Verifier, verifier) != 1 {
		return nil, yerrors.ErrInvalidLoginPassword
	}
	m.viewer = identifier
	out := account
	return &out, nil
}

// SetViewer overrides the authenticated identity. Tests use this to fetch
// the same folder from two perspectives without re-running login.
func (m *Memory) SetViewer(identifier string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.viewer = identifier
}

func (m *Memory) CreateFolder(ctx context.Context, folder VaultFolder) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	folder.ID = uuid.New().String()
	if folder.RefID == "" {
		folder.RefID = folder.ID
	}
	folder.SharedBy = ""
	folder.IsOwner = true
	folder.CanModify = true
	f := folder
	m.folders[folder.ID] = &f
	return folder.ID, nil
}

func (m *Memory) FetchFolder(ctx context.Context, folderID string) (*FolderListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	listing := &FolderListing{}

	if folderID != "" {
		folder, ok := m.folders[folderID]
		if !ok {
			return nil, yerrors.ErrNotFound
		}
		view, seq, err := m.viewOf(folder)
		if err != nil {
			return nil, err
		}
		listing.Folder = view
		listing.KeySequence = seq
	}

	for _, f := range m.folders {
		if f.ParentID == folderID {
			listing.Folders = append(listing.Folders, *f)
		}
	}
	for _, it := range m.items {
		if it.FolderID == folderID {
			listing.Items = append(listing.Items, *it)
		}
	}
	return listing, nil
}

// viewOf renders a folder for the current viewer. For the owner the key
// sequence is the protected keys of the folder's strict ancestors,
// root-first. For a grantee the granted folder is a pseudo-root: the
// sequence stops there and the grant's wrapped key replaces the
// protected key, so resolution starts from the grantee's own private key.
func (m *Memory) viewOf(folder *VaultFolder) (VaultFolder, [][]byte, error) {
	view := *folder

	var chain []*VaultFolder
	for f := folder; f.ParentID != ""; {
		parent, ok := m.folders[f.ParentID]
		if !ok {
			return view, nil, yerrors.ErrNotFound
		}
		chain = append([]*VaultFolder{parent}, chain...)
		f = parent
	}

	if grant := m.grantFor(m.viewer, folder.RefID); grant != nil {
		view.ProtectedKey = grant.WrappedKey
		view.IsOwner = false
		view.CanModify = grant.CanModify
		view.ID = folder.RefID
		return view, nil, nil
	}

	var seq [][]byte
	for i, ancestor := range chain {
		if grant := m.grantFor(m.viewer, ancestor.RefID); grant != nil {
			// Pseudo-root for the viewer: the sequence restarts at the
			// granted ancestor with the grantee-wrapped key.
			seq = [][]byte{grant.WrappedKey}
			for _, below := range chain[i+1:] {
				seq = append(seq, below.ProtectedKey)
			}
			view.IsOwner = false
			view.CanModify = grant.CanModify
			return view, seq, nil
		}
	}

	for _, ancestor := range chain {
		seq = append(seq, ancestor.ProtectedKey)
	}
	return view, seq, nil
}

func (m *Memory) grantFor(viewer, targetID string) *ShareGrant {
	for _, g := range m.grants {
		if g.Grantee == viewer && g.TargetID == targetID {
			return g
		}
	}
	return nil
}

func (m *Memory) RenameFolder(ctx context.Context, folderID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	folder, ok := m.folders[folderID]
	if !ok {
		return yerrors.ErrNotFound
	}
	folder.Name = name
	return nil
}

func (m *Memory) DeleteFolder(ctx context.Context, folderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.folders[folderID]; !ok {
		return yerrors.ErrNotFound
	}
	delete(m.folders, folderID)
	for id, it := range m.items {
		if it.FolderID == folderID {
			delete(m.items, id)
			delete(m.chunks, id)
		}
	}
	return nil
}

func (m *Memory) InitUpload(ctx context.Context, meta UploadMetadata) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if meta.Chunks < 1 {
		return "", fmt.Errorf("chunk count must be at least 1: %w", yerrors.ErrRemoteRejected)
	}
	id := uuid.New().String()
	m.uploads[id] = &memUpload{meta: meta, received: make(map[int]bool), owner: m.viewer}
	m.chunks[id] = make(map[int][]byte)
	return id, nil
}

func (m *Memory) UploadChunk(ctx context.Context, transferID string, index int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	up, ok := m.uploads[transferID]
	if !ok {
		return yerrors.ErrNotFound
	}
	chunks := m.expectedChunks(up)
	if index < 1 || index > chunks {
		return fmt.Errorf("chunk index %d out of range 1..%d: %w", index, chunks, yerrors.ErrRemoteRejected)
	}
	if up.done {
		return fmt.Errorf("transfer %s already finalized: %w", transferID, yerrors.ErrRemoteRejected)
	}
	// Receipt of the final index finalizes the object, so it is rejected
	// while any earlier chunk is still missing.
	if index == chunks {
		for i := 1; i < chunks; i++ {
			if !up.received[i] {
				return fmt.Errorf("final chunk before chunk %d: %w", i, yerrors.ErrRemoteRejected)
			}
		}
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	m.chunks[transferID][index] = buf
	up.received[index] = true

	if index == chunks {
		up.done = true
		m.finalize(transferID, up)
	}
	return nil
}

func (m *Memory) expectedChunks(up *memUpload) int {
	if up.isSend {
		return up.sendMeta.Chunks
	}
	return up.meta.Chunks
}

func (m *Memory) finalize(transferID string, up *memUpload) {
	if up.isSend {
		meta := up.sendMeta
		m.sends[transferID] = &meta
		return
	}
	m.items[transferID] = &VaultItem{
		ID:           transferID,
		RefID:        transferID,
		FolderID:     up.meta.FolderID,
		Name:         up.meta.Name,
		ProtectedKey: up.meta.ProtectedKey,
		Size:         up.meta.Size,
		Chunks:       up.meta.Chunks,
		PasswordData: up.meta.PasswordData,
		IsOwner:      true,
		CanModify:    true,
	}
}

func (m *Memory) DownloadChunk(ctx context.Context, itemID string, index int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	chunks, ok := m.chunks[itemID]
	if !ok {
		return nil, yerrors.ErrNotFound
	}
	data, ok := chunks[index]
	if !ok {
		return nil, yerrors.ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *Memory) DeleteItem(ctx context.Context, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[itemID]; !ok {
		return yerrors.ErrNotFound
	}
	delete(m.items, itemID)
	delete(m.chunks, itemID)
	delete(m.uploads, itemID)
	return nil
}

// TamperChunk corrupts one stored chunk in place. Test hook.
func (m *Memory) TamperChunk(itemID string, index int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if chunks, ok := m.chunks[itemID]; ok {
		if data, ok := chunks[index]; ok && len(data) > 0 {
			data[len(data)/2] ^= 0xff
		}
	}
}

func (m *Memory) CreateGrant(ctx context.Context, grant ShareGrant) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[grant.Grantee]; !ok && len(m.accounts) > 0 {
		return "", fmt.Errorf("grantee %s: %w", grant.Grantee, yerrors.ErrRecipientNotFound)
	}
	grant.ID = uuid.New().String()
	g := grant
	m.grants[grant.ID] = &g
	if folder, ok := m.folders[grant.TargetID]; ok {
		folder.SharedWith++
	}
	return grant.ID, nil
}

func (m *Memory) UpdateGrant(ctx context.Context, grantID string, canModify bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	grant, ok := m.grants[grantID]
	if !ok {
		return yerrors.ErrGrantNotFound
	}
	grant.CanModify = canModify
	return nil
}

func (m *Memory) DeleteGrant(ctx context.Context, grantID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	grant, ok := m.grants[grantID]
	if !ok {
		return yerrors.ErrGrantNotFound
	}
	if folder, ok := m.folders[grant.TargetID]; ok && folder.SharedWith > 0 {
		folder.SharedWith--
	}
	delete(m.grants, grantID)
	return nil
}

func (m *Memory) PublicKey(ctx context.Context, identifier string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[identifier]
	if !ok {
		return nil, yerrors.ErrRecipientNotFound
	}
	return account.PublicKey, nil
}

func (m *Memory) InitSend(ctx context.Context, meta SendMetadata) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if meta.Chunks < 1 {
		return "", fmt.Errorf("chunk count must be at least 1: %w", yerrors.ErrRemoteRejected)
	}
	id := uuid.New().String()
	m.uploads[id] = &memUpload{isSend: true, sendMeta: meta, received: make(map[int]bool), owner: m.viewer}
	m.chunks[id] = make(map[int][]byte)
	return id, nil
}

func (m *Memory) FetchSend(ctx context.Context, sendID string) (*SendMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	meta, ok := m.sends[sendID]
	if !ok {
		return nil, yerrors.ErrNotFound
	}
	if !meta.Expiration.IsZero() && time.Now().After(meta.Expiration) {
		delete(m.sends, sendID)
		delete(m.chunks, sendID)
		return nil, yerrors.ErrNotFound
	}
	if meta.MaxDownloads > 0 {
		meta.MaxDownloads--
		if meta.MaxDownloads == 0 {
			// Last permitted download: hand out the metadata, then burn.
			out := *meta
			delete(m.sends, sendID)
			return &out, nil
		}
	}
	out := *meta
	return &out, nil
}

var _ Remote = (*Memory)(nil)
