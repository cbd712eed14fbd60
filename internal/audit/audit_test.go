package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/skynet-05/yeetfile-sub000/internal/configs"
)

func TestLogAppendsEntries(t *testing.T) {
	dir := t.TempDir()
	original := configs.UserYeetfileSettings.VaultStorePath
	configs.UserYeetfileSettings.VaultStorePath = filepath.Join(dir, "vault.toml")
	defer func() { configs.UserYeetfileSettings.VaultStorePath = original }()

	Log(Entry{User: "user@example.com", Operation: "upload", ItemID: "item-1", Chunks: 3, Size: 25_000_000})
	Log(Entry{User: "user@example.com", Operation: "share", TargetUser: "grantee@example.com", GrantID: "grant-1"})

	f, err := os.Open(filepath.Join(dir, "audit.jsonl"))
	if err != nil {
		t.Fatalf("Expected the audit log to exist: %v", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("Malformed audit line: %v", err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("Scanning audit log failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Operation != "upload" || entries[0].Chunks != 3 {
		t.Errorf("First entry mismatch: %+v", entries[0])
	}
	if entries[1].Operation != "share" || entries[1].GrantID != "grant-1" {
		t.Errorf("Second entry mismatch: %+v", entries[1])
	}
	for _, entry := range entries {
		if entry.ID == "" || entry.Timestamp == "" {
			t.Errorf("Entry missing generated id or timestamp: %+v", entry)
		}
	}
}
