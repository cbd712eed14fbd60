package keyvault

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/skynet-05/yeetfile-sub000/internal/crypto"
	yerrors "github.com/skynet-05/yeetfile-sub000/internal/errors"
)

// appSalt is the fixed application-level salt for deriving the wrap key
// from a vault password. The vault password is the secret; the salt only
// namespaces the derivation.
var appSalt = []byte("yeetfile/keyvault/v1")

// Vault persists the identity key pair between sessions without ever
// storing the private key unencrypted. The private key is wrapped under a
// key derived either from a user-chosen vault password or, when no vault
// password is set, from a per-device secret kept outside the store file.
// Either way, the store file alone never yields the private key.
type Vault struct {
	mu sync.Mutex

	store *recordStore

	// secretPath holds the device secret, deliberately in a different
	// directory from the store so that one leaked file is not enough.
	secretPath string
}

// New returns a Vault storing its records at storePath and the device
// secret at secretPath.
func New(storePath, secretPath string) *Vault {
	return &Vault{
		store:      newRecordStore(storePath),
		secretPath: secretPath,
	}
}

// Store wraps and persists the identity key pair, replacing any prior
// record set in a single transaction. A non-empty vaultPassword opts the
// user into password protection; an empty one uses the device secret.
func (v *Vault) Store(priv *rsa.PrivateKey, vaultPassword []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	wrapKey, err := v.wrapKey(vaultPassword)
	if err != nil {
		return err
	}

	wrapped, err := crypto.Encrypt(wrapKey, crypto.MarshalPrivateKey(priv))
	if err != nil {
		return fmt.Errorf("failed to wrap private key: %w", err)
	}
	publicDER, err := crypto.MarshalPublicKey(&priv.PublicKey)
	if err != nil {
		return err
	}

	flag := []byte{0}
	if len(vaultPassword) > 0 {
		flag = []byte{1}
	}

	return v.store.putAll(map[string][]byte{
		recordWrappedPrivateKey: wrapped,
		recordPublicKey:         publicDER,
		recordProtectedFlag:     flag,
	})
}

// IsPasswordProtected reports whether unlocking requires the vault
// password. It reads only the flag record, never key material.
func (v *Vault) IsPasswordProtected() (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	flag, err := v.store.get(recordProtectedFlag)
	if errors.Is(err, yerrors.ErrVaultRecordNotFound) {
		return false, yerrors.ErrVaultNotInitialized
	}
	if err != nil {
		return false, err
	}
	return len(flag) == 1 && flag[0] == 1, nil
}

// Unlock recomputes the wrap key and decrypts the stored private key.
// An authentication failure on the wrapped key means the vault password
// is wrong and surfaces as ErrInvalidVaultPassword, distinct from storage
// errors, so the caller re-prompts rather than treating it as fatal.
func (v *Vault) Unlock(vaultPassword []byte) (*rsa.PrivateKey, *rsa.PublicKey, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	wrapped, err := v.store.get(recordWrappedPrivateKey)
	if errors.Is(err, yerrors.ErrVaultRecordNotFound) {
		return nil, nil, yerrors.ErrVaultNotInitialized
	}
	if err != nil {
		return nil, nil, err
	}
	publicDER, err := v.store.get(recordPublicKey)
	if err != nil {
		return nil, nil, err
	}

	wrapKey, err := v.wrapKey(vaultPassword)
	if err != nil {
		return nil, nil, err
	}

	privateDER, err := crypto.Decrypt(wrapKey, wrapped)
	if errors.Is(err, yerrors.ErrCorruptData) {
		return nil, nil, yerrors.ErrInvalidVaultPassword
	}
	if err != nil {
		return nil, nil, err
	}

	priv, err := crypto.ParsePrivateKey(privateDER)
	if err != nil {
		return nil, nil, err
	}
	pub, err := crypto.ParsePublicKey(publicDER)
	if err != nil {
		return nil, nil, err
	}
	return priv, pub, nil
}

// PublicKey returns the stored public key without unlocking.
func (v *Vault) PublicKey() (*rsa.PublicKey, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	publicDER, err := v.store.get(recordPublicKey)
	if errors.Is(err, yerrors.ErrVaultRecordNotFound) {
		return nil, yerrors.ErrVaultNotInitialized
	}
	if err != nil {
		return nil, err
	}
	return crypto.ParsePublicKey(publicDER)
}

// Clear deletes all vault records and the device secret. Used on logout
// and before re-storing for a different account.
func (v *Vault) Clear() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.store.clear(); err != nil {
		return err
	}
	if err := os.Remove(v.secretPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove device secret: %w", err)
	}
	return nil
}

func (v *Vault) wrapKey(vaultPassword []byte) ([]byte, error) {
	if len(vaultPassword) > 0 {
		return crypto.DeriveKey(vaultPassword, appSalt), nil
	}
	secret, err := v.deviceSecret()
	if err != nil {
		return nil, err
	}
	return crypto.DeriveKey(secret, appSalt), nil
}

// deviceSecret loads the per-device secret, generating it on first use.
func (v *Vault) deviceSecret() ([]byte, error) {
	secret, err := os.ReadFile(v.secretPath)
	if err == nil {
		if len(secret) != crypto.KeySize {
			return nil, fmt.Errorf("device secret has invalid size %d", len(secret))
		}
		return secret, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read device secret: %w", err)
	}

	secret, err = crypto.RandomBytes(crypto.KeySize)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(v.secretPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create device secret directory: %w", err)
	}
	if err := os.WriteFile(v.secretPath, secret, 0600); err != nil {
		return nil, fmt.Errorf("failed to write device secret: %w", err)
	}
	return secret, nil
}
