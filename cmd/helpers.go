package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"github.com/skynet-05/yeetfile-sub000/internal/configs"
	yerrors "github.com/skynet-05/yeetfile-sub000/internal/errors"
	"github.com/skynet-05/yeetfile-sub000/internal/keyvault"
	"github.com/skynet-05/yeetfile-sub000/internal/server"
	"github.com/skynet-05/yeetfile-sub000/internal/session"
	"github.com/skynet-05/yeetfile-sub000/internal/ui"
	"github.com/skynet-05/yeetfile-sub000/internal/utils"
)

func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		// If we can't set spinner color, just continue without it.
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	if !verbose && !debug {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		// Restore log output first.
		if !verbose && !debug {
			log.SetOutput(os.Stdout)
		}

		// Ensure final message ends with a newline.
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		// Stop the spinner first to clear the spinner line.
		if !verbose && !debug {
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

func startSpinnerWithFlags(message string, verbose, debugFlag bool) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	// Ignore color errors - continue without colored spinner if it fails.
	_ = s.Color("cyan")

	if !verbose && !debugFlag {
		s.Start()
		log.SetOutput(io.Discard)
	}

	cleanup := func() {
		if !verbose && !debugFlag {
			log.SetOutput(os.Stdout)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			s.FinalMSG = ""
		}

		if !verbose && !debugFlag {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// localVault returns the key vault at the user's fixed local paths.
func localVault() *keyvault.Vault {
	settings := configs.UserYeetfileSettings
	return keyvault.New(settings.VaultStorePath, settings.DeviceSecretPath)
}

// remoteFromConfig builds the server client from the saved configuration.
func remoteFromConfig(config *configs.UserConfig) (server.Remote, error) {
	if config.Server.URL == "" {
		return nil, fmt.Errorf("no server configured; run %s first", ui.Code.Sprint("yeetfile account signup"))
	}
	return server.NewClient(config.Server.URL, nil)
}

// openSession unlocks the local key vault and assembles a session. A
// password-protected vault prompts on the terminal; a wrong password
// re-prompts instead of failing, since the distinction is surfaced by the
// error type.
func openSession() (*session.Session, error) {
	config, err := configs.LoadUserConfig()
	if err != nil {
		return nil, err
	}
	if config.Account.Identifier == "" {
		return nil, fmt.Errorf("not logged in; run %s first", ui.Code.Sprint("yeetfile account login"))
	}
	remote, err := remoteFromConfig(config)
	if err != nil {
		return nil, err
	}

	vault := localVault()
	protected, err := vault.IsPasswordProtected()
	if err != nil {
		return nil, err
	}

	if protected && !utils.IsTerminal() {
		return nil, fmt.Errorf("vault is password protected and stdin is not a terminal")
	}

	var vaultPassword []byte
	for attempt := 0; ; attempt++ {
		if protected {
			prompt := "Vault password: "
			if attempt > 0 {
				prompt = "Vault password (incorrect, try again): "
			}
			vaultPassword, err = utils.ReadPassphrase(prompt)
			if err != nil {
				return nil, err
			}
		}

		sess, err := session.Unlock(vault, config.Account.Identifier, vaultPassword, remote)
		if errors.Is(err, yerrors.ErrInvalidVaultPassword) && protected && attempt < 2 {
			continue
		}
		if err != nil {
			return nil, err
		}
		return sess, nil
	}
}
