package keyvault

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/skynet-05/yeetfile-sub000/internal/crypto"
	yerrors "github.com/skynet-05/yeetfile-sub000/internal/errors"
)

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	dir := t.TempDir()
	return New(filepath.Join(dir, "data", "vault.toml"), filepath.Join(dir, "config", "device_secret"))
}

func TestStoreAndUnlockWithPassword(t *testing.T) {
	vault := newTestVault(t)
	priv, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	if err := vault.Store(priv, []byte("vault password")); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	protected, err := vault.IsPasswordProtected()
	if err != nil {
		t.Fatalf("IsPasswordProtected failed: %v", err)
	}
	if !protected {
		t.Error("Expected vault to be password protected")
	}

	unlockedPriv, unlockedPub, err := vault.Unlock([]byte("vault password"))
	if err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	if !unlockedPriv.Equal(priv) {
		t.Error("Unlocked private key does not match the stored key")
	}
	if !unlockedPub.Equal(&priv.PublicKey) {
		t.Error("Unlocked public key does not match the stored key")
	}
}

func TestStoreAndUnlockWithDeviceSecret(t *testing.T) {
	vault := newTestVault(t)
	priv, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	if err := vault.Store(priv, nil); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	protected, err := vault.IsPasswordProtected()
	if err != nil {
		t.Fatalf("IsPasswordProtected failed: %v", err)
	}
	if protected {
		t.Error("Expected vault without a vault password to not be password protected")
	}

	unlockedPriv, _, err := vault.Unlock(nil)
	if err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	if !unlockedPriv.Equal(priv) {
		t.Error("Unlocked private key does not match the stored key")
	}
}

func TestUnlockWithWrongPasswordFails(t *testing.T) {
	vault := newTestVault(t)
	priv, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	if err := vault.Store(priv, []byte("correct password")); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	if _, _, err := vault.Unlock([]byte("wrong password")); !errors.Is(err, yerrors.ErrInvalidVaultPassword) {
		t.Errorf("Expected ErrInvalidVaultPassword, got: %v", err)
	}

	// A failed attempt must leave the record intact for the retry.
	unlockedPriv, _, err := vault.Unlock([]byte("correct password"))
	if err != nil {
		t.Fatalf("Unlock after failed attempt failed: %v", err)
	}
	if !unlockedPriv.Equal(priv) {
		t.Error("Private key changed after a failed unlock attempt")
	}
}

func TestUnlockUninitializedVault(t *testing.T) {
	vault := newTestVault(t)

	if _, _, err := vault.Unlock(nil); !errors.Is(err, yerrors.ErrVaultNotInitialized) {
		t.Errorf("Expected ErrVaultNotInitialized, got: %v", err)
	}
	if _, err := vault.IsPasswordProtected(); !errors.Is(err, yerrors.ErrVaultNotInitialized) {
		t.Errorf("Expected ErrVaultNotInitialized, got: %v", err)
	}
}

func TestPublicKeyWithoutUnlocking(t *testing.T) {
	vault := newTestVault(t)
	priv, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	if err := vault.Store(priv, []byte("vault password")); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	pub, err := vault.PublicKey()
	if err != nil {
		t.Fatalf("PublicKey failed: %v", err)
	}
	if !pub.Equal(&priv.PublicKey) {
		t.Error("Stored public key does not match")
	}
}

func TestClearRemovesRecordsAndDeviceSecret(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, "data", "vault.toml")
	secretPath := filepath.Join(dir, "config", "device_secret")
	vault := New(storePath, secretPath)

	priv, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	if err := vault.Store(priv, nil); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if _, err := os.Stat(secretPath); err != nil {
		t.Fatalf("Expected device secret to exist: %v", err)
	}

	if err := vault.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if _, _, err := vault.Unlock(nil); !errors.Is(err, yerrors.ErrVaultNotInitialized) {
		t.Errorf("Expected ErrVaultNotInitialized after Clear, got: %v", err)
	}
	if _, err := os.Stat(secretPath); !os.IsNotExist(err) {
		t.Errorf("Expected device secret to be removed, got: %v", err)
	}
}

func TestStoreReplacesPreviousRecords(t *testing.T) {
	vault := newTestVault(t)

	first, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	if err := vault.Store(first, []byte("old password")); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	second, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	if err := vault.Store(second, []byte("new password")); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	unlocked, _, err := vault.Unlock([]byte("new password"))
	if err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	if !unlocked.Equal(second) {
		t.Error("Expected the replacement key pair after re-store")
	}
	if _, _, err := vault.Unlock([]byte("old password")); !errors.Is(err, yerrors.ErrInvalidVaultPassword) {
		t.Errorf("Expected old password to stop working, got: %v", err)
	}
}

func TestStoreFilePermissions(t *testing.T) {
	vault := newTestVault(t)
	priv, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	if err := vault.Store(priv, []byte("vault password")); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	info, err := os.Stat(vault.store.path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Expected store file mode 0600, got %o", perm)
	}
}
