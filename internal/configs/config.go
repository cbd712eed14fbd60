package configs

import (
	"fmt"
	"os"
)

// UserConfig is the persisted client configuration.
type UserConfig struct {
	Account Account `toml:"account"`
	Server  Server  `toml:"server"`
}

type Account struct {
	// Identifier is the email or 16-digit account id used for key
	// derivation and server authentication.
	Identifier string `toml:"identifier"`
}

type Server struct {
	URL string `toml:"url"`
}

// LoadUserConfig loads the user configuration, returning an empty config
// if none exists yet.
func LoadUserConfig() (*UserConfig, error) {
	config := &UserConfig{}

	if _, err := os.Stat(UserYeetfileSettings.ConfigPath); os.IsNotExist(err) {
		return config, nil
	}
	if err := LoadTOML(UserYeetfileSettings.ConfigPath, config); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	return config, nil
}

// SaveUserConfig saves the user configuration.
func SaveUserConfig(config *UserConfig) error {
	if err := SaveTOML(UserYeetfileSettings.ConfigPath, config); err != nil {
		return fmt.Errorf("failed to save user config: %w", err)
	}
	return nil
}
