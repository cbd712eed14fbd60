package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skynet-05/yeetfile-sub000/internal/audit"
)

var renameCmd = &cobra.Command{
	Use:   "rename <folder-id> <new-name>",
	Short: "Rename a vault folder",
	Long: `Re-encrypts the folder's name under its existing key. The folder key and
everything beneath it are untouched.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		folderID, name := args[0], args[1]
		spinner, cleanup := startSpinner("Renaming...", verbose)
		defer cleanup()

		sess, err := openSession()
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " " + err.Error()
			return nil
		}

		// The folder key must be resolved first to encrypt the new name.
		_, folder, err := sess.FetchFolder(cmd.Context(), folderID)
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " Failed to resolve folder\n" +
				color.RedString("Error: ") + err.Error()
			return nil
		}

		if err := sess.RenameFolder(cmd.Context(), folder, name); err != nil {
			spinner.FinalMSG = color.RedString("✗") + " Failed to rename folder\n" +
				color.RedString("Error: ") + err.Error()
			return nil
		}

		audit.Log(audit.Entry{Operation: "rename", User: sess.Identifier, FolderID: folderID})
		spinner.FinalMSG = color.GreenString("✓") + " Renamed folder to " + color.YellowString(name)
		return nil
	},
}

func init() {
	VaultCmd.AddCommand(renameCmd)
}
