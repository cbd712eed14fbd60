package keychain

import (
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/skynet-05/yeetfile-sub000/internal/crypto"
	yerrors "github.com/skynet-05/yeetfile-sub000/internal/errors"
)

// Resolve walks a server-supplied chain of wrapped keys from the viewer's
// root down to a target folder and returns the symmetric key that wraps
// the target's own protected key.
//
// The first link is always wrapped RSA-OAEP under the viewer's public
// key; every later link is wrapped AES-GCM under the key unwrapped from
// the link before it. An empty sequence means the target sits in the
// viewer's root (or is a folder shared directly with them, which behaves
// as a root from their side): the caller unwraps the target's protected
// key with UnwrapRootKey instead.
//
// Any authentication failure aborts resolution of the whole subtree with
// ErrKeyChainBroken. Continuing past a broken link could present garbage
// as valid content, so partial resolution is forbidden.
func Resolve(priv *rsa.PrivateKey, keySequence [][]byte) ([]byte, error) {
	if len(keySequence) == 0 {
		return nil, fmt.Errorf("empty key sequence: target is a root, unwrap its protected key directly")
	}

	key, err := crypto.DecryptRSA(priv, keySequence[0])
	if err != nil {
		return nil, brokenAt(0, err)
	}

	for i := 1; i < len(keySequence); i++ {
		key, err = crypto.Decrypt(key, keySequence[i])
		if err != nil {
			return nil, brokenAt(i, err)
		}
	}

	if len(key) != crypto.KeySize {
		return nil, fmt.Errorf("resolved key has length %d: %w", len(key), yerrors.ErrKeyChainBroken)
	}
	return key, nil
}

// UnwrapRootKey unwraps the protected key of a root-level folder or item,
// or of a folder shared directly with the viewer. These are the chain
// entry points: always RSA-OAEP under the viewer's own public key.
func UnwrapRootKey(priv *rsa.PrivateKey, protectedKey []byte) ([]byte, error) {
	key, err := crypto.DecryptRSA(priv, protectedKey)
	if err != nil {
		return nil, fmt.Errorf("root entry point: %w", yerrors.ErrKeyChainBroken)
	}
	return key, nil
}

// UnwrapFolderKey performs the final hop: unwrapping a folder's or item's
// own protected key with its parent folder's key.
func UnwrapFolderKey(parentKey, protectedKey []byte) ([]byte, error) {
	key, err := crypto.Decrypt(parentKey, protectedKey)
	if err != nil {
		return nil, fmt.Errorf("final hop: %w", yerrors.ErrKeyChainBroken)
	}
	return key, nil
}

func brokenAt(index int, err error) error {
	if errors.Is(err, yerrors.ErrInvalidKeyLength) {
		return fmt.Errorf("link %d wrapped under malformed key: %w", index, yerrors.ErrKeyChainBroken)
	}
	return fmt.Errorf("link %d failed authentication: %w", index, yerrors.ErrKeyChainBroken)
}
