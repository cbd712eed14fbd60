package cmd

import (
	"errors"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skynet-05/yeetfile-sub000/internal/audit"
	yerrors "github.com/skynet-05/yeetfile-sub000/internal/errors"
)

var (
	shareFolderID  string
	shareItemID    string
	shareCanModify bool
)

var shareCmd = &cobra.Command{
	Use:   "share <recipient>",
	Short: "Share a folder or item with another user",
	Long: `Re-wraps the target's symmetric key under the recipient's public key so
they can resolve it independently. The recipient sees a shared folder as
a root of their own; your folder hierarchy above it stays invisible.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recipient := args[0]
		spinner, cleanup := startSpinner("Sharing...", verbose)
		defer cleanup()

		if shareFolderID == "" && shareItemID == "" {
			return Logger.ErrorfAndReturn("one of --folder or --item is required")
		}

		sess, err := openSession()
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " " + err.Error()
			return nil
		}

		var grantID string
		if shareItemID != "" {
			listing, folder, err := sess.FetchFolder(cmd.Context(), shareFolderID)
			if err != nil {
				spinner.FinalMSG = color.RedString("✗") + " Failed to resolve folder\n" +
					color.RedString("Error: ") + err.Error()
				return nil
			}
			found := false
			for i := range listing.Items {
				if listing.Items[i].ID == shareItemID {
					grant, err := sess.ShareItem(cmd.Context(), folder, &listing.Items[i], recipient, shareCanModify)
					if err != nil {
						return reportShareError(spinner, recipient, err)
					}
					grantID = grant.ID
					found = true
					break
				}
			}
			if !found {
				spinner.FinalMSG = color.RedString("✗") + " No item " +
					color.YellowString(shareItemID) + " in that folder"
				return nil
			}
		} else {
			_, folder, err := sess.FetchFolder(cmd.Context(), shareFolderID)
			if err != nil {
				spinner.FinalMSG = color.RedString("✗") + " Failed to resolve folder\n" +
					color.RedString("Error: ") + err.Error()
				return nil
			}
			grant, err := sess.ShareFolder(cmd.Context(), folder, recipient, shareCanModify)
			if err != nil {
				return reportShareError(spinner, recipient, err)
			}
			grantID = grant.ID
		}

		audit.Log(audit.Entry{
			Operation:  "share",
			User:       sess.Identifier,
			TargetUser: recipient,
			GrantID:    grantID,
			FolderID:   shareFolderID,
			ItemID:     shareItemID,
		})
		spinner.FinalMSG = color.GreenString("✓") + " Shared with " +
			color.CyanString(recipient) + " (grant " + grantID + ")"
		return nil
	},
}

func reportShareError(s *spinner.Spinner, recipient string, err error) error {
	msg := color.RedString("✗") + " Failed to share with " + color.CyanString(recipient)
	if errors.Is(err, yerrors.ErrRecipientNotFound) {
		msg += "\n" + color.CyanString("→") + " No account found for that identifier"
	} else {
		msg += "\n" + color.RedString("Error: ") + err.Error()
	}
	s.FinalMSG = msg
	return nil
}

func init() {
	shareCmd.Flags().StringVarP(&shareFolderID, "folder", "f", "", "folder id to share (or containing folder when sharing an item)")
	shareCmd.Flags().StringVarP(&shareItemID, "item", "i", "", "item id to share")
	shareCmd.Flags().BoolVarP(&shareCanModify, "can-modify", "m", false, "grant modify permission instead of read-only")
}
