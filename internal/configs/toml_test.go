package configs

import (
	"path/filepath"
	"testing"
)

func TestTOMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	saved := &UserConfig{
		Account: Account{Identifier: "user@example.com"},
		Server:  Server{URL: "https://yeetfile.example.com"},
	}
	if err := SaveTOML(path, saved); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	loaded := &UserConfig{}
	if err := LoadTOML(path, loaded); err != nil {
		t.Fatalf("LoadTOML failed: %v", err)
	}
	if *loaded != *saved {
		t.Errorf("Round trip mismatch: got %+v, want %+v", loaded, saved)
	}
}

func TestLoadTOMLMissingFile(t *testing.T) {
	loaded := &UserConfig{}
	if err := LoadTOML(filepath.Join(t.TempDir(), "absent.toml"), loaded); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
