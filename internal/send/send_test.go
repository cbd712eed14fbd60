package send

import (
	"bytes"
	"errors"
	"testing"

	"github.com/skynet-05/yeetfile-sub000/internal/crypto"
	yerrors "github.com/skynet-05/yeetfile-sub000/internal/errors"
)

func TestPasswordlessSendRoundTrip(t *testing.T) {
	secret, err := Create("")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if secret.PasswordBound {
		t.Error("Passwordless send must not be password bound")
	}
	if len(secret.Salt) != 0 {
		t.Error("Passwordless send must not carry a salt")
	}
	if !bytes.Equal(secret.Pepper, secret.Key) {
		t.Error("Passwordless send's pepper must be the raw key")
	}

	// Recipient side: only the fragment travels.
	pepper, err := ParseFragment(secret.Fragment())
	if err != nil {
		t.Fatalf("ParseFragment failed: %v", err)
	}
	key, err := Resolve("", nil, pepper)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !bytes.Equal(key, secret.Key) {
		t.Error("Recipient did not reconstruct the sender's key")
	}
}

func TestPasswordBoundSendRoundTrip(t *testing.T) {
	secret, err := Create("open sesame")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if !secret.PasswordBound {
		t.Error("Expected password-bound send")
	}
	if len(secret.Salt) != saltSize {
		t.Errorf("Expected %d-byte salt, got %d", saltSize, len(secret.Salt))
	}
	if bytes.Equal(secret.Pepper, secret.Key) {
		t.Error("Password-bound pepper must not equal the key")
	}
	if len(secret.Key) != crypto.KeySize {
		t.Errorf("Expected %d-byte key, got %d", crypto.KeySize, len(secret.Key))
	}

	pepper, err := ParseFragment(secret.Fragment())
	if err != nil {
		t.Fatalf("ParseFragment failed: %v", err)
	}
	key, err := Resolve("open sesame", secret.Salt, pepper)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !bytes.Equal(key, secret.Key) {
		t.Error("Recipient did not reconstruct the sender's key")
	}
}

func TestPasswordBoundSendWrongPasswordYieldsDifferentKey(t *testing.T) {
	secret, err := Create("correct password")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	key, err := Resolve("wrong password", secret.Salt, secret.Pepper)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if bytes.Equal(key, secret.Key) {
		t.Error("Wrong password reconstructed the correct key")
	}
}

func TestResolveRejectsMalformedInputs(t *testing.T) {
	if _, err := Resolve("", nil, []byte("short")); !errors.Is(err, yerrors.ErrKeyDerivation) {
		t.Errorf("Expected ErrKeyDerivation for short bearer key, got: %v", err)
	}
	if _, err := Resolve("password", nil, make([]byte, pepperSize)); !errors.Is(err, yerrors.ErrKeyDerivation) {
		t.Errorf("Expected ErrKeyDerivation for missing salt, got: %v", err)
	}
}

func TestParseFragmentRejectsGarbage(t *testing.T) {
	if _, err := ParseFragment("not!base64url!"); err == nil {
		t.Error("Expected an error for a malformed fragment")
	}
}

func TestFreshSendsDoNotShareKeys(t *testing.T) {
	first, err := Create("")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := Create("")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if bytes.Equal(first.Key, second.Key) {
		t.Error("Two sends produced the same key")
	}
}
