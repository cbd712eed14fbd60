package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skynet-05/yeetfile-sub000/internal/audit"
	"github.com/skynet-05/yeetfile-sub000/internal/configs"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the local key vault and saved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinnerWithFlags("Logging out...", accountVerbose, accountDebug)
		defer cleanup()

		config, err := configs.LoadUserConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load config: %v", err)
		}

		// Clearing the vault destroys the only local copy of the wrapped
		// private key. The escrowed copy on the server remains, so the
		// next login restores it from the account password.
		if err := localVault().Clear(); err != nil {
			return Logger.ErrorfAndReturn("failed to clear key vault: %v", err)
		}

		audit.Log(audit.Entry{Operation: "logout", User: config.Account.Identifier})

		config.Account.Identifier = ""
		if err := configs.SaveUserConfig(config); err != nil {
			return Logger.ErrorfAndReturn("failed to save config: %v", err)
		}

		spinner.FinalMSG = color.GreenString("✓") + " Logged out"
		return nil
	},
}
