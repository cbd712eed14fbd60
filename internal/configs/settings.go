package configs

import (
	"log"
	"os"
	"path/filepath"
)

// UserSettings are the fixed local paths for this user. The vault store
// lives under the data dir and the device secret under the config dir on
// purpose: leaking one of the two directories must not be enough to
// recover the private key.
type UserSettings struct {
	ConfigPath       string
	VaultStorePath   string
	DeviceSecretPath string
}

var UserYeetfileSettings *UserSettings

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("error getting home directory: %s", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatalf("error getting config directory: %s", err)
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	UserYeetfileSettings = &UserSettings{
		ConfigPath:       filepath.Join(configDir, "yeetfile", "config.toml"),
		VaultStorePath:   filepath.Join(dataDir, "yeetfile", "vault.toml"),
		DeviceSecretPath: filepath.Join(configDir, "yeetfile", "device_secret"),
	}
}
