// Package sharing implements the re-wrap protocol that gives another user
// independent access to a folder or item key.
//
// A share never moves content and never re-keys it: the target's raw
// symmetric key is wrapped under the grantee's public key and stored
// server-side as a grant. Revoking deletes that grant, which removes the
// grantee's only wrapped copy. Anyone who already resolved the key before
// revocation retains it; revocation controls access, it is not a
// cryptographic erasure guarantee.
package sharing

import (
	"context"
	"crypto/rsa"
	"fmt"

	"github.com/skynet-05/yeetfile-sub000/internal/crypto"
	yerrors "github.com/skynet-05/yeetfile-sub000/internal/errors"
	"github.com/skynet-05/yeetfile-sub000/internal/server"
)

// Protocol issues, updates, and revokes share grants against a Remote.
type Protocol struct {
	remote server.Remote
}

// New returns a Protocol backed by the given server.
func New(remote server.Remote) *Protocol {
	return &Protocol{remote: remote}
}

// LookupRecipient fetches and parses a recipient's public key by their
// identifier (email or account id).
func (p *Protocol) LookupRecipient(ctx context.Context, identifier string) (*rsa.PublicKey, error) {
	der, err := p.remote.PublicKey(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("looking up recipient %s: %w", identifier, err)
	}
	pub, err := crypto.ParsePublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("recipient %s has malformed public key: %w", identifier, err)
	}
	return pub, nil
}

// Share wraps rawKey under the grantee's public key and submits the grant.
// The caller must already hold the raw key for the target; Share never
// walks the key chain itself. Returns the grant with its server-assigned id.
func (p *Protocol) Share(ctx context.Context, targetID, grantee string, rawKey []byte, granteePub *rsa.PublicKey, canModify bool) (*server.ShareGrant, error) {
	if len(rawKey) != crypto.KeySize {
		return nil, fmt.Errorf("raw key has length %d: %w", len(rawKey), yerrors.ErrInvalidKeyLength)
	}

	wrapped, err := crypto.EncryptRSA(granteePub, rawKey)
	if err != nil {
		return nil, fmt.Errorf("wrapping key for %s: %w", grantee, err)
	}

	grant := server.ShareGrant{
		Grantee:    grantee,
		TargetID:   targetID,
		WrappedKey: wrapped,
		CanModify:  canModify,
	}
	id, err := p.remote.CreateGrant(ctx, grant)
	if err != nil {
		return nil, fmt.Errorf("submitting grant for %s: %w", grantee, err)
	}
	grant.ID = id
	return &grant, nil
}

// ChangePermission flips the modify flag on an existing grant. The key
// material is unchanged, so nothing is re-wrapped.
func (p *Protocol) ChangePermission(ctx context.Context, grantID string, canModify bool) error {
	if err := p.remote.UpdateGrant(ctx, grantID, canModify); err != nil {
		return fmt.Errorf("updating grant %s: %w", grantID, err)
	}
	return nil
}

// Revoke deletes a grant. The grantee immediately loses the ability to
// resolve the key; the content itself is not re-keyed.
func (p *Protocol) Revoke(ctx context.Context, grantID string) error {
	if err := p.remote.DeleteGrant(ctx, grantID); err != nil {
		return fmt.Errorf("revoking grant %s: %w", grantID, err)
	}
	return nil
}
