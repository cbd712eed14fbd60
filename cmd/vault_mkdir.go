package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skynet-05/yeetfile-sub000/internal/audit"
)

var mkdirParentID string

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <name>",
	Short: "Create a folder with a fresh encryption key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		spinner, cleanup := startSpinner("Creating folder...", verbose)
		defer cleanup()

		sess, err := openSession()
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " " + err.Error()
			return nil
		}

		// The parent must be resolved first: the new folder's key is
		// wrapped under the parent's key (or the public key at the root).
		_, parent, err := sess.FetchFolder(cmd.Context(), mkdirParentID)
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " Failed to resolve parent folder\n" +
				color.RedString("Error: ") + err.Error()
			return nil
		}

		id, err := sess.CreateFolder(cmd.Context(), parent, name)
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " Failed to create folder\n" +
				color.RedString("Error: ") + err.Error()
			return nil
		}

		audit.Log(audit.Entry{Operation: "mkdir", User: sess.Identifier, FolderID: id})
		spinner.FinalMSG = color.GreenString("✓") + " Created folder " +
			color.YellowString(name) + " (" + id + ")"
		return nil
	},
}

func init() {
	mkdirCmd.Flags().StringVarP(&mkdirParentID, "folder", "f", "", "parent folder id (defaults to the root)")
}
