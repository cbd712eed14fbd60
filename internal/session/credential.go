package session

import (
	"encoding/json"
	"fmt"

	"github.com/skynet-05/yeetfile-sub000/internal/crypto"
)

// Credential is a password-vault entry. It is serialized and sealed
// under the owning item's key; the server stores only the envelope.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
	URL      string `json:"url,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Seal serializes and encrypts the credential under the item key.
func (c *Credential) Seal(itemKey []byte) ([]byte, error) {
	record, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("serializing credential: %w", err)
	}
	return crypto.Encrypt(itemKey, record)
}

// OpenCredential decrypts and parses a credential envelope.
func OpenCredential(itemKey, envelope []byte) (*Credential, error) {
	record, err := crypto.Decrypt(itemKey, envelope)
	if err != nil {
		return nil, fmt.Errorf("opening credential: %w", err)
	}
	var cred Credential
	if err := json.Unmarshal(record, &cred); err != nil {
		return nil, fmt.Errorf("parsing credential record: %w", err)
	}
	return &cred, nil
}
