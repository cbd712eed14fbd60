package cmd

import (
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skynet-05/yeetfile-sub000/internal/audit"
	"github.com/skynet-05/yeetfile-sub000/internal/transfer"
)

var uploadFolderID string

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Encrypt and upload a file into the vault",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		spinner, cleanup := startSpinner("Uploading...", verbose)
		defer cleanup()

		sess, err := openSession()
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " " + err.Error()
			return nil
		}

		file, err := os.Open(path)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to open %s: %v", path, err)
		}
		defer file.Close()

		info, err := file.Stat()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to stat %s: %v", path, err)
		}

		_, folder, err := sess.FetchFolder(cmd.Context(), uploadFolderID)
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " Failed to resolve destination folder\n" +
				color.RedString("Error: ") + err.Error()
			return nil
		}

		Logger.Infof("Uploading %s (%d bytes, %d chunks)", path, info.Size(), transfer.ChunkCount(info.Size()))
		t, err := sess.UploadFile(cmd.Context(), folder, filepath.Base(path), file, info.Size())
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " Upload failed\n" +
				color.RedString("Error: ") + err.Error()
			return nil
		}

		audit.Log(audit.Entry{
			Operation: "upload",
			User:      sess.Identifier,
			ItemID:    t.ID(),
			FolderID:  folder.ID,
			Chunks:    transfer.ChunkCount(info.Size()),
			Size:      info.Size(),
		})
		spinner.FinalMSG = color.GreenString("✓") + " Uploaded " +
			color.YellowString(filepath.Base(path)) + " (" + t.ID() + ")"
		return nil
	},
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadFolderID, "folder", "f", "", "destination folder id (defaults to the root)")
}
