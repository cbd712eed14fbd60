package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/skynet-05/yeetfile-sub000/internal/configs"
)

// Entry is a single audit log record. The log records which operations
// ran, never key material or plaintext names.
type Entry struct {
	ID        string `json:"id"`
	Timestamp string `json:"ts"` // RFC3339 with microseconds.
	User      string `json:"user,omitempty"`
	Operation string `json:"op"`

	// Optional fields depending on operation.
	ItemID     string `json:"item_id,omitempty"`    // For upload/download/delete.
	FolderID   string `json:"folder_id,omitempty"`  // For folder operations.
	TargetUser string `json:"target_user,omitempty"` // For share/revoke.
	GrantID    string `json:"grant_id,omitempty"`    // For share/revoke.
	Chunks     int    `json:"chunks,omitempty"`      // For transfers.
	Size       int64  `json:"size,omitempty"`        // For transfers.
	SendID     string `json:"send_id,omitempty"`     // For send operations.
}

// Log appends an entry to the audit log. Logging failures are swallowed:
// an operation must never fail because its audit record could not be
// written.
func Log(entry Entry) {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	logPath := filepath.Join(filepath.Dir(configs.UserYeetfileSettings.VaultStorePath), "audit.jsonl")

	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_, _ = f.Write(append(data, '\n'))
}
