package cmd

import (
	"errors"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skynet-05/yeetfile-sub000/internal/audit"
	yerrors "github.com/skynet-05/yeetfile-sub000/internal/errors"
	"github.com/skynet-05/yeetfile-sub000/internal/server"
	"github.com/skynet-05/yeetfile-sub000/internal/session"
)

var (
	downloadFolderID string
	downloadOutput   string
)

var downloadCmd = &cobra.Command{
	Use:   "download <item-id>",
	Short: "Download and decrypt a vault item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID := args[0]
		spinner, cleanup := startSpinner("Downloading...", verbose)
		defer cleanup()

		sess, err := openSession()
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " " + err.Error()
			return nil
		}

		listing, folder, err := sess.FetchFolder(cmd.Context(), downloadFolderID)
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " Failed to resolve folder\n" +
				color.RedString("Error: ") + err.Error()
			return nil
		}

		var item *server.VaultItem
		for i := range listing.Items {
			if listing.Items[i].ID == itemID {
				item = &listing.Items[i]
				break
			}
		}
		if item == nil {
			spinner.FinalMSG = color.RedString("✗") + " No item " +
				color.YellowString(itemID) + " in that folder"
			return nil
		}

		output := downloadOutput
		if output == "" {
			key, err := sess.ItemKey(folder, item)
			if err != nil {
				spinner.FinalMSG = color.RedString("✗") + " Failed to unwrap item key\n" +
					color.RedString("Error: ") + err.Error()
				return nil
			}
			output, err = session.DecryptName(key, item.Name)
			if err != nil {
				spinner.FinalMSG = color.RedString("✗") + " Failed to decrypt item name\n" +
					color.RedString("Error: ") + err.Error()
				return nil
			}
		}

		// Decrypted chunks stream into a temp file that is only moved
		// into place on success, so a corrupt transfer never leaves a
		// partial plaintext at the destination.
		tmp, err := os.CreateTemp(".", ".yeetfile-download-*")
		if err != nil {
			return Logger.ErrorfAndReturn("failed to create output file: %v", err)
		}
		defer os.Remove(tmp.Name())

		_, err = sess.DownloadItem(cmd.Context(), folder, item, tmp)
		closeErr := tmp.Close()
		if err != nil {
			if errors.Is(err, yerrors.ErrCorruptData) {
				spinner.FinalMSG = color.RedString("✗") + " Download failed integrity verification: " +
					"the stored data is corrupt or has been tampered with"
				return nil
			}
			spinner.FinalMSG = color.RedString("✗") + " Download failed\n" +
				color.RedString("Error: ") + err.Error()
			return nil
		}
		if closeErr != nil {
			return Logger.ErrorfAndReturn("failed to flush output file: %v", closeErr)
		}
		if err := os.Rename(tmp.Name(), output); err != nil {
			return Logger.ErrorfAndReturn("failed to move output into place: %v", err)
		}

		audit.Log(audit.Entry{
			Operation: "download",
			User:      sess.Identifier,
			ItemID:    item.ID,
			Chunks:    item.Chunks,
			Size:      item.Size,
		})
		spinner.FinalMSG = color.GreenString("✓") + " Downloaded to " + color.YellowString(output)
		return nil
	},
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadFolderID, "folder", "f", "", "folder id containing the item (defaults to the root)")
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "output path (defaults to the decrypted item name)")
}
