package cmd

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skynet-05/yeetfile-sub000/internal/audit"
	yerrors "github.com/skynet-05/yeetfile-sub000/internal/errors"
)

var revokeCanModify bool

var revokeCmd = &cobra.Command{
	Use:   "revoke <grant-id>",
	Short: "Revoke a share grant",
	Long: `Deletes the recipient's wrapped copy of the key, removing their access.
The content itself is not re-encrypted: someone who already downloaded
and decrypted it before revocation keeps what they have.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		grantID := args[0]
		spinner, cleanup := startSpinner("Revoking...", verbose)
		defer cleanup()

		sess, err := openSession()
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " " + err.Error()
			return nil
		}

		if err := sess.Revoke(cmd.Context(), grantID); err != nil {
			if errors.Is(err, yerrors.ErrGrantNotFound) {
				spinner.FinalMSG = color.RedString("✗") + " No grant " + color.YellowString(grantID)
				return nil
			}
			spinner.FinalMSG = color.RedString("✗") + " Failed to revoke\n" +
				color.RedString("Error: ") + err.Error()
			return nil
		}

		audit.Log(audit.Entry{Operation: "revoke", User: sess.Identifier, GrantID: grantID})
		spinner.FinalMSG = color.GreenString("✓") + " Revoked grant " + color.YellowString(grantID)
		return nil
	},
}

var permissionCmd = &cobra.Command{
	Use:   "permission <grant-id>",
	Short: "Change a grant between read-only and modify",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		grantID := args[0]
		spinner, cleanup := startSpinner("Updating permission...", verbose)
		defer cleanup()

		sess, err := openSession()
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " " + err.Error()
			return nil
		}

		if err := sess.ChangePermission(cmd.Context(), grantID, revokeCanModify); err != nil {
			spinner.FinalMSG = color.RedString("✗") + " Failed to update grant\n" +
				color.RedString("Error: ") + err.Error()
			return nil
		}

		audit.Log(audit.Entry{Operation: "permission", User: sess.Identifier, GrantID: grantID})
		spinner.FinalMSG = color.GreenString("✓") + " Updated grant " + color.YellowString(grantID)
		return nil
	},
}

func init() {
	permissionCmd.Flags().BoolVarP(&revokeCanModify, "can-modify", "m", false, "grant modify permission instead of read-only")
	VaultCmd.AddCommand(permissionCmd)
}
