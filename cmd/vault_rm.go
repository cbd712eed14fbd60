package cmd

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skynet-05/yeetfile-sub000/internal/audit"
	yerrors "github.com/skynet-05/yeetfile-sub000/internal/errors"
)

var rmCmd = &cobra.Command{
	Use:   "rm <item-id>",
	Short: "Delete a vault item",
	Long: `Deletes an item's metadata and encrypted chunks from the server. The
item's key dies with its last wrapped copy; there is no undelete.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID := args[0]
		spinner, cleanup := startSpinner("Deleting...", verbose)
		defer cleanup()

		sess, err := openSession()
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " " + err.Error()
			return nil
		}

		if err := sess.DeleteItem(cmd.Context(), itemID); err != nil {
			if errors.Is(err, yerrors.ErrNotFound) {
				spinner.FinalMSG = color.RedString("✗") + " No item " + color.YellowString(itemID)
				return nil
			}
			spinner.FinalMSG = color.RedString("✗") + " Failed to delete\n" +
				color.RedString("Error: ") + err.Error()
			return nil
		}

		audit.Log(audit.Entry{Operation: "rm", User: sess.Identifier, ItemID: itemID})
		spinner.FinalMSG = color.GreenString("✓") + " Deleted item " + color.YellowString(itemID)
		return nil
	},
}

var rmdirCmd = &cobra.Command{
	Use:   "rmdir <folder-id>",
	Short: "Delete a vault folder and its contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folderID := args[0]
		spinner, cleanup := startSpinner("Deleting folder...", verbose)
		defer cleanup()

		sess, err := openSession()
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " " + err.Error()
			return nil
		}

		if err := sess.DeleteFolder(cmd.Context(), folderID); err != nil {
			if errors.Is(err, yerrors.ErrNotFound) {
				spinner.FinalMSG = color.RedString("✗") + " No folder " + color.YellowString(folderID)
				return nil
			}
			spinner.FinalMSG = color.RedString("✗") + " Failed to delete folder\n" +
				color.RedString("Error: ") + err.Error()
			return nil
		}

		audit.Log(audit.Entry{Operation: "rmdir", User: sess.Identifier, FolderID: folderID})
		spinner.FinalMSG = color.GreenString("✓") + " Deleted folder " + color.YellowString(folderID)
		return nil
	},
}

func init() {
	VaultCmd.AddCommand(rmCmd)
	VaultCmd.AddCommand(rmdirCmd)
}
