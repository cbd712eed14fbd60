package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skynet-05/yeetfile-sub000/internal/audit"
	"github.com/skynet-05/yeetfile-sub000/internal/configs"
	"github.com/skynet-05/yeetfile-sub000/internal/server"
	"github.com/skynet-05/yeetfile-sub000/internal/session"
	"github.com/skynet-05/yeetfile-sub000/internal/utils"
)

var (
	signupServerURL     string
	signupVaultPassword bool
)

var signupCmd = &cobra.Command{
	Use:   "signup <identifier>",
	Short: "Create an account and generate your identity key pair",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		identifier := args[0]
		spinner, cleanup := startSpinnerWithFlags("Creating account...", accountVerbose, accountDebug)
		defer cleanup()

		password, err := utils.ReadPassphrase("Account password: ")
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read password: %v", err)
		}
		confirm, err := utils.ReadPassphrase("Confirm password: ")
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read password: %v", err)
		}
		if string(password) != string(confirm) {
			spinner.FinalMSG = color.RedString("✗") + " Passwords do not match"
			return nil
		}

		var vaultPassword []byte
		if signupVaultPassword {
			vaultPassword, err = utils.ReadPassphrase("Vault password (protects your key on this device): ")
			if err != nil {
				return Logger.ErrorfAndReturn("failed to read vault password: %v", err)
			}
		} else {
			Logger.WarnfAlways("No vault password set; the local key is protected only by a per-device secret")
		}

		remote, err := server.NewClient(signupServerURL, nil)
		if err != nil {
			return Logger.ErrorfAndReturn("invalid server URL: %v", err)
		}

		Logger.Infof("Deriving account keys and generating identity key pair")
		sess, err := session.Signup(cmd.Context(), remote, localVault(), identifier, string(password), vaultPassword)
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " Signup failed\n" +
				color.RedString("Error: ") + err.Error()
			return nil
		}

		config := &configs.UserConfig{}
		config.Account.Identifier = sess.Identifier
		config.Server.URL = signupServerURL
		if err := configs.SaveUserConfig(config); err != nil {
			return Logger.ErrorfAndReturn("failed to save config: %v", err)
		}

		audit.Log(audit.Entry{Operation: "signup", User: sess.Identifier})
		spinner.FinalMSG = color.GreenString("✓") + " Account created for " +
			color.CyanString(sess.Identifier)
		return nil
	},
}

func init() {
	signupCmd.Flags().StringVar(&signupServerURL, "server", "https://yeetfile.com", "server to sign up against")
	signupCmd.Flags().BoolVar(&signupVaultPassword, "vault-password", false, "protect the local key vault with a separate password")
}
