package sharing

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/skynet-05/yeetfile-sub000/internal/crypto"
	yerrors "github.com/skynet-05/yeetfile-sub000/internal/errors"
	"github.com/skynet-05/yeetfile-sub000/internal/server"
)

func TestShareGrantRoundTrip(t *testing.T) {
	remote := server.NewMemory()
	protocol := New(remote)
	ctx := context.Background()

	granteePriv, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	granteePubDER, err := crypto.MarshalPublicKey(&granteePriv.PublicKey)
	if err != nil {
		t.Fatalf("MarshalPublicKey failed: %v", err)
	}
	if err := remote.Signup(ctx, server.Account{Identifier: "grantee@example.com", PublicKey: granteePubDER}); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	folderKey, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}

	pub, err := protocol.LookupRecipient(ctx, "grantee@example.com")
	if err != nil {
		t.Fatalf("LookupRecipient failed: %v", err)
	}
	grant, err := protocol.Share(ctx, "folder-ref", "grantee@example.com", folderKey, pub, false)
	if err != nil {
		t.Fatalf("Share failed: %v", err)
	}
	if grant.ID == "" {
		t.Error("Expected a server-assigned grant id")
	}

	// The grantee must recover the exact raw key with nothing but their
	// own private key and the grant.
	unwrapped, err := crypto.DecryptRSA(granteePriv, grant.WrappedKey)
	if err != nil {
		t.Fatalf("Grantee failed to unwrap the granted key: %v", err)
	}
	if !bytes.Equal(unwrapped, folderKey) {
		t.Error("Granted key does not match the folder key")
	}
}

func TestShareRejectsBadKeyLength(t *testing.T) {
	protocol := New(server.NewMemory())

	priv, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	if _, err := protocol.Share(context.Background(), "folder-ref", "grantee@example.com", []byte("short"), &priv.PublicKey, false); !errors.Is(err, yerrors.ErrInvalidKeyLength) {
		t.Errorf("Expected ErrInvalidKeyLength, got: %v", err)
	}
}

func TestLookupRecipientUnknown(t *testing.T) {
	remote := server.NewMemory()
	protocol := New(remote)
	ctx := context.Background()

	if err := remote.Signup(ctx, server.Account{Identifier: "someone@example.com"}); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	if _, err := protocol.LookupRecipient(ctx, "nobody@example.com"); !errors.Is(err, yerrors.ErrRecipientNotFound) {
		t.Errorf("Expected ErrRecipientNotFound, got: %v", err)
	}
}

func TestChangePermissionAndRevoke(t *testing.T) {
	remote := server.NewMemory()
	protocol := New(remote)
	ctx := context.Background()

	granteePriv, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	granteePubDER, err := crypto.MarshalPublicKey(&granteePriv.PublicKey)
	if err != nil {
		t.Fatalf("MarshalPublicKey failed: %v", err)
	}
	if err := remote.Signup(ctx, server.Account{Identifier: "grantee@example.com", PublicKey: granteePubDER}); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	folderKey, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	grant, err := protocol.Share(ctx, "folder-ref", "grantee@example.com", folderKey, &granteePriv.PublicKey, false)
	if err != nil {
		t.Fatalf("Share failed: %v", err)
	}

	if err := protocol.ChangePermission(ctx, grant.ID, true); err != nil {
		t.Fatalf("ChangePermission failed: %v", err)
	}
	if err := protocol.Revoke(ctx, grant.ID); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	// The grant is gone; a second revoke has nothing to delete.
	if err := protocol.Revoke(ctx, grant.ID); !errors.Is(err, yerrors.ErrGrantNotFound) {
		t.Errorf("Expected ErrGrantNotFound after revocation, got: %v", err)
	}
}
