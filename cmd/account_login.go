package cmd

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skynet-05/yeetfile-sub000/internal/audit"
	"github.com/skynet-05/yeetfile-sub000/internal/configs"
	yerrors "github.com/skynet-05/yeetfile-sub000/internal/errors"
	"github.com/skynet-05/yeetfile-sub000/internal/server"
	"github.com/skynet-05/yeetfile-sub000/internal/session"
	"github.com/skynet-05/yeetfile-sub000/internal/utils"
)

var (
	loginServerURL     string
	loginVaultPassword bool
)

var loginCmd = &cobra.Command{
	Use:   "login <identifier>",
	Short: "Log in and cache your identity key pair locally",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		identifier := args[0]
		spinner, cleanup := startSpinnerWithFlags("Logging in...", accountVerbose, accountDebug)
		defer cleanup()

		password, err := utils.ReadPassphrase("Account password: ")
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read password: %v", err)
		}

		var vaultPassword []byte
		if loginVaultPassword {
			vaultPassword, err = utils.ReadPassphrase("Vault password (protects your key on this device): ")
			if err != nil {
				return Logger.ErrorfAndReturn("failed to read vault password: %v", err)
			}
		}

		remote, err := server.NewClient(loginServerURL, nil)
		if err != nil {
			return Logger.ErrorfAndReturn("invalid server URL: %v", err)
		}

		Logger.Infof("Deriving login verifier")
		sess, err := session.Login(cmd.Context(), remote, localVault(), identifier, string(password), vaultPassword)
		if errors.Is(err, yerrors.ErrInvalidLoginPassword) {
			spinner.FinalMSG = color.RedString("✗") + " Wrong account password"
			return nil
		}
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " Login failed\n" +
				color.RedString("Error: ") + err.Error()
			return nil
		}

		config := &configs.UserConfig{}
		config.Account.Identifier = sess.Identifier
		config.Server.URL = loginServerURL
		if err := configs.SaveUserConfig(config); err != nil {
			return Logger.ErrorfAndReturn("failed to save config: %v", err)
		}

		audit.Log(audit.Entry{Operation: "login", User: sess.Identifier})
		spinner.FinalMSG = color.GreenString("✓") + " Logged in as " +
			color.CyanString(sess.Identifier)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginServerURL, "server", "https://yeetfile.com", "server to log in against")
	loginCmd.Flags().BoolVar(&loginVaultPassword, "vault-password", false, "protect the local key vault with a separate password")
}
