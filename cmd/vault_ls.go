package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skynet-05/yeetfile-sub000/internal/server"
	"github.com/skynet-05/yeetfile-sub000/internal/session"
	"github.com/skynet-05/yeetfile-sub000/internal/ui"
)

var lsFolderID string

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the contents of a vault folder",
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Fetching folder...", verbose)
		defer cleanup()

		sess, err := openSession()
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " " + err.Error()
			return nil
		}

		listing, folder, err := sess.FetchFolder(cmd.Context(), lsFolderID)
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " Failed to fetch folder\n" +
				color.RedString("Error: ") + err.Error()
			return nil
		}

		spinner.Stop()
		printListing(sess, folder, listing)
		return nil
	},
}

// printListing resolves each child's name with its own key. A child whose
// key chain is broken is shown as unreadable rather than hiding the whole
// listing: the integrity failure is per-subtree.
func printListing(sess *session.Session, folder *session.ResolvedFolder, listing *server.FolderListing) {
	for _, sub := range listing.Folders {
		name := resolveChildFolderName(sess, folder, sub)
		suffix := ""
		if sub.SharedWith > 0 {
			suffix = " " + ui.Info.Sprintf("(shared with %d)", sub.SharedWith)
		}
		if sub.SharedBy != "" {
			suffix = " " + ui.Info.Sprintf("(shared by %s)", sub.SharedBy)
		}
		fmt.Printf("%s  %s%s\n", ui.Path.Sprint(name+"/"), ui.Highlight.Sprint(sub.ID), suffix)
	}
	for _, item := range listing.Items {
		name := resolveItemName(sess, folder, item)
		kind := ""
		if len(item.PasswordData) > 0 {
			kind = " " + ui.Info.Sprint("(password entry)")
		}
		fmt.Printf("%s  %s  %d bytes%s\n", name, ui.Highlight.Sprint(item.ID), item.Size, kind)
	}
	if len(listing.Folders) == 0 && len(listing.Items) == 0 {
		fmt.Println(ui.Info.Sprint("(empty)"))
	}
}

func resolveChildFolderName(sess *session.Session, parent *session.ResolvedFolder, sub server.VaultFolder) string {
	key, err := sess.ChildFolderKey(parent, &sub)
	if err != nil {
		return ui.Error.Sprint("<unreadable>")
	}
	name, err := session.DecryptName(key, sub.Name)
	if err != nil {
		return ui.Error.Sprint("<unreadable>")
	}
	return name
}

func resolveItemName(sess *session.Session, folder *session.ResolvedFolder, item server.VaultItem) string {
	key, err := sess.ItemKey(folder, &item)
	if err != nil {
		return ui.Error.Sprint("<unreadable>")
	}
	name, err := session.DecryptName(key, item.Name)
	if err != nil {
		return ui.Error.Sprint("<unreadable>")
	}
	return name
}

func init() {
	lsCmd.Flags().StringVarP(&lsFolderID, "folder", "f", "", "folder id to list (defaults to the root)")
}
