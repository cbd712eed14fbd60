package keyvault

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	yerrors "github.com/skynet-05/yeetfile-sub000/internal/errors"
)

// Fixed record ids. The store holds exactly these; undeclared records are
// never written.
const (
	recordWrappedPrivateKey = "wrapped_private_key"
	recordPublicKey         = "public_key"
	recordProtectedFlag     = "password_protected"
)

const storeVersion = 1

// recordStore is a small versioned key-value store backed by one TOML
// file. Every mutation rewrites the whole file through a temp-file rename,
// so each Put and Clear is all-or-nothing: a crash mid-write leaves either
// the old file or the new one, never a half-written record.
type recordStore struct {
	path string
}

type storeFile struct {
	Version int               `toml:"version"`
	Records map[string]string `toml:"records"`
}

func newRecordStore(path string) *recordStore {
	return &recordStore{path: path}
}

func (s *recordStore) load() (*storeFile, error) {
	file := &storeFile{Version: storeVersion, Records: make(map[string]string)}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return file, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read vault store: %w", err)
	}
	if err := toml.Unmarshal(data, file); err != nil {
		return nil, fmt.Errorf("failed to parse vault store: %w", err)
	}
	if file.Records == nil {
		file.Records = make(map[string]string)
	}
	if file.Version != storeVersion {
		return nil, fmt.Errorf("unsupported vault store version %d", file.Version)
	}
	return file, nil
}

// putAll replaces the entire record set in one transaction.
func (s *recordStore) putAll(records map[string][]byte) error {
	file := &storeFile{Version: storeVersion, Records: make(map[string]string, len(records))}
	for id, value := range records {
		file.Records[id] = base64.StdEncoding.EncodeToString(value)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create vault store directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".vault-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp vault store: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to restrict vault store permissions: %w", err)
	}
	if err := toml.NewEncoder(tmp).Encode(file); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode vault store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to flush vault store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to commit vault store: %w", err)
	}
	return nil
}

func (s *recordStore) get(id string) ([]byte, error) {
	file, err := s.load()
	if err != nil {
		return nil, err
	}
	encoded, ok := file.Records[id]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", id, yerrors.ErrVaultRecordNotFound)
	}
	value, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("record %s is malformed: %w", id, err)
	}
	return value, nil
}

func (s *recordStore) clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear vault store: %w", err)
	}
	return nil
}
