package cmd

import (
	"encoding/hex"
	"errors"
	"net/url"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skynet-05/yeetfile-sub000/internal/audit"
	"github.com/skynet-05/yeetfile-sub000/internal/crypto"
	yerrors "github.com/skynet-05/yeetfile-sub000/internal/errors"
	"github.com/skynet-05/yeetfile-sub000/internal/send"
	"github.com/skynet-05/yeetfile-sub000/internal/server"
	"github.com/skynet-05/yeetfile-sub000/internal/transfer"
	"github.com/skynet-05/yeetfile-sub000/internal/utils"
)

var sendDownloadOutput string

var sendDownloadCmd = &cobra.Command{
	Use:   "download <link>",
	Short: "Download and decrypt a send from its share link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		link := args[0]
		spinner, cleanup := startSpinnerWithFlags("Downloading...", sendVerbose, sendDebug)
		defer cleanup()

		sendID, pepper, base, err := parseSendLink(link)
		if err != nil {
			return Logger.ErrorfAndReturn("%v", err)
		}

		remote, err := server.NewClient(base, nil)
		if err != nil {
			return Logger.ErrorfAndReturn("invalid server URL: %v", err)
		}

		meta, err := remote.FetchSend(cmd.Context(), sendID)
		if errors.Is(err, yerrors.ErrNotFound) {
			spinner.FinalMSG = color.RedString("✗") + " This send no longer exists (expired or download limit reached)"
			return nil
		}
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " Failed to fetch send\n" +
				color.RedString("Error: ") + err.Error()
			return nil
		}

		password := ""
		if meta.PasswordBound {
			pw, err := utils.ReadPassphrase("Send password: ")
			if err != nil {
				return Logger.ErrorfAndReturn("failed to read password: %v", err)
			}
			password = string(pw)
		}

		key, err := send.Resolve(password, meta.Salt, pepper)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to derive send key: %v", err)
		}

		output := sendDownloadOutput
		if output == "" {
			output, err = openSendName(key, meta.Name)
			if err != nil {
				// A bad name decryption with a password-bound send means
				// the password was wrong, not that the data is damaged.
				if meta.PasswordBound {
					spinner.FinalMSG = color.RedString("✗") + " Wrong send password"
					return nil
				}
				spinner.FinalMSG = color.RedString("✗") + " The share link is invalid or the data is corrupt"
				return nil
			}
		}

		tmp, err := os.CreateTemp(".", ".yeetfile-send-*")
		if err != nil {
			return Logger.ErrorfAndReturn("failed to create output file: %v", err)
		}
		defer os.Remove(tmp.Name())

		engine := transfer.New(remote)
		_, err = engine.Download(cmd.Context(), sendID, meta.Chunks, key, tmp)
		closeErr := tmp.Close()
		if err != nil {
			if errors.Is(err, yerrors.ErrCorruptData) {
				spinner.FinalMSG = color.RedString("✗") + " Download failed integrity verification"
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

		audit.Log(audit.Entry{Operation: "send_download", SendID: sendID, Size: meta.Size})
		spinner.FinalMSG = color.GreenString("✓") + " Downloaded to " + color.YellowString(output)
		return nil
	},
}

// parseSendLink splits a share link into the send id, the pepper from
// the fragment, and the server base URL. The fragment never left the
// sender's machine except inside this link.
func parseSendLink(link string) (id string, pepper []byte, base string, err error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", nil, "", err
	}
	if u.Fragment == "" {
		return "", nil, "", errors.New("share link is missing its secret fragment")
	}
	pepper, err = send.ParseFragment(u.Fragment)
	if err != nil {
		return "", nil, "", err
	}
	id = strings.TrimPrefix(u.Path, "/send/")
	if id == "" || id == u.Path {
		return "", nil, "", errors.New("share link is missing the send id")
	}
	u.Fragment = ""
	u.Path = ""
	return id, pepper, u.String(), nil
}

func openSendName(key []byte, encName string) (string, error) {
	envelope, err := hex.DecodeString(encName)
	if err != nil {
		return "", err
	}
	name, err := crypto.Decrypt(key, envelope)
	if err != nil {
		return "", err
	}
	return string(name), nil
}

func init() {
	sendDownloadCmd.Flags().StringVarP(&sendDownloadOutput, "output", "o", "", "output path (defaults to the decrypted name)")
}
