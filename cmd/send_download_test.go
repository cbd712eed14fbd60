package cmd

import (
	"bytes"
	"testing"

	"github.com/skynet-05/yeetfile-sub000/internal/send"
)

func TestParseSendLink(t *testing.T) {
	secret, err := send.Create("")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	link := "https://yeetfile.example.com/send/abc-123#" + secret.Fragment()

	id, pepper, base, err := parseSendLink(link)
	if err != nil {
		t.Fatalf("parseSendLink failed: %v", err)
	}
	if id != "abc-123" {
		t.Errorf("Expected send id %q, got %q", "abc-123", id)
	}
	if !bytes.Equal(pepper, secret.Pepper) {
		t.Error("Pepper did not survive the link round trip")
	}
	if base != "https://yeetfile.example.com" {
		t.Errorf("Expected base URL %q, got %q", "https://yeetfile.example.com", base)
	}
}

func TestParseSendLinkRejectsMalformedLinks(t *testing.T) {
	cases := []string{
		"https://yeetfile.example.com/send/abc-123",      // no fragment
		"https://yeetfile.example.com/#c29tZXBlcHBlcg",   // no send id
		"https://yeetfile.example.com/send/abc#bad!frag", // undecodable fragment
	}
	for _, link := range cases {
		if _, _, _, err := parseSendLink(link); err == nil {
			t.Errorf("Expected parseSendLink(%q) to fail", link)
		}
	}
}
