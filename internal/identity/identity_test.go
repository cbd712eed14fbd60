package identity

import (
	"bytes"
	"errors"
	"testing"

	"github.com/skynet-05/yeetfile-sub000/internal/crypto"
	yerrors "github.com/skynet-05/yeetfile-sub000/internal/errors"
)

func TestDeriveUserKeyDeterministic(t *testing.T) {
	first, err := DeriveUserKey("user@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("DeriveUserKey failed: %v", err)
	}
	second, err := DeriveUserKey("user@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("DeriveUserKey failed: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("Same identifier and password produced different user keys")
	}
	if len(first) != crypto.KeySize {
		t.Errorf("Expected %d-byte user key, got %d", crypto.KeySize, len(first))
	}
}

func TestDeriveUserKeyVariesWithInputs(t *testing.T) {
	base, err := DeriveUserKey("user@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("DeriveUserKey failed: %v", err)
	}

	otherIdentifier, err := DeriveUserKey("other@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("DeriveUserKey failed: %v", err)
	}
	if bytes.Equal(base, otherIdentifier) {
		t.Error("Different identifiers produced the same user key")
	}

	otherPassword, err := DeriveUserKey("user@example.com", "different password")
	if err != nil {
		t.Fatalf("DeriveUserKey failed: %v", err)
	}
	if bytes.Equal(base, otherPassword) {
		t.Error("Different passwords produced the same user key")
	}
}

func TestDeriveUserKeyRejectsEmptyInputs(t *testing.T) {
	if _, err := DeriveUserKey("", "password"); !errors.Is(err, yerrors.ErrKeyDerivation) {
		t.Errorf("Expected ErrKeyDerivation for empty identifier, got: %v", err)
	}
	if _, err := DeriveUserKey("user@example.com", ""); !errors.Is(err, yerrors.ErrKeyDerivation) {
		t.Errorf("Expected ErrKeyDerivation for empty password, got: %v", err)
	}
}

func TestDeriveLoginVerifierDeterministic(t *testing.T) {
	userKey, err := DeriveUserKey("user@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("DeriveUserKey failed: %v", err)
	}

	first, err := DeriveLoginVerifier(userKey, "hunter2hunter2")
	if err != nil {
		t.Fatalf("DeriveLoginVerifier failed: %v", err)
	}
	second, err := DeriveLoginVerifier(userKey, "hunter2hunter2")
	if err != nil {
		t.Fatalf("DeriveLoginVerifier failed: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("Verifier derivation is not deterministic")
	}
	if bytes.Equal(first, userKey) {
		t.Error("Verifier must not equal the user key")
	}
}

func TestDeriveLoginVerifierRejectsBadKeyLength(t *testing.T) {
	if _, err := DeriveLoginVerifier([]byte("short"), "password"); !errors.Is(err, yerrors.ErrKeyDerivation) {
		t.Errorf("Expected ErrKeyDerivation for short user key, got: %v", err)
	}
}
