package cmd

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skynet-05/yeetfile-sub000/internal/audit"
	"github.com/skynet-05/yeetfile-sub000/internal/configs"
	"github.com/skynet-05/yeetfile-sub000/internal/crypto"
	"github.com/skynet-05/yeetfile-sub000/internal/send"
	"github.com/skynet-05/yeetfile-sub000/internal/server"
	"github.com/skynet-05/yeetfile-sub000/internal/transfer"
	"github.com/skynet-05/yeetfile-sub000/internal/utils"
)

var (
	sendServerURL    string
	sendWithPassword bool
	sendExpiresIn    time.Duration
	sendMaxDownloads int
)

var sendUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Encrypt and upload a file, printing a one-time share link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		spinner, cleanup := startSpinnerWithFlags("Uploading...", sendVerbose, sendDebug)
		defer cleanup()

		password := ""
		if sendWithPassword {
			pw, err := utils.ReadPassphrase("Send password: ")
			if err != nil {
				return Logger.ErrorfAndReturn("failed to read password: %v", err)
			}
			password = string(pw)
		}

		secret, err := send.Create(password)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to derive send key: %v", err)
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

		remote, err := sendRemote()
		if err != nil {
			return Logger.ErrorfAndReturn("%v", err)
		}

		// The name is encrypted under the send key like any other
		// envelope; the server learns nothing from the metadata but
		// sizes, counts, and (for password-bound sends) the salt.
		nameEnvelope, err := sealSendName(secret.Key, filepath.Base(path))
		if err != nil {
			return Logger.ErrorfAndReturn("failed to encrypt name: %v", err)
		}

		meta := server.SendMetadata{
			Name:          nameEnvelope,
			Salt:          secret.Salt,
			MaxDownloads:  sendMaxDownloads,
			PasswordBound: secret.PasswordBound,
		}
		if sendExpiresIn > 0 {
			meta.Expiration = time.Now().Add(sendExpiresIn)
		}

		engine := transfer.New(remote)
		t, err := engine.UploadSend(cmd.Context(), meta, secret.Key, file, info.Size())
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " Upload failed\n" +
				color.RedString("Error: ") + err.Error()
			return nil
		}

		audit.Log(audit.Entry{Operation: "send_upload", SendID: t.ID(), Size: info.Size()})
		link := sendServerURL + "/send/" + t.ID() + "#" + secret.Fragment()
		spinner.FinalMSG = color.GreenString("✓") + " Uploaded. Share this link:\n" +
			color.CyanString(link)
		if secret.PasswordBound {
			spinner.FinalMSG += "\n" + color.YellowString("The recipient also needs the password.")
		}
		return nil
	},
}

func sendRemote() (server.Remote, error) {
	if sendServerURL == "" {
		config, err := configs.LoadUserConfig()
		if err != nil {
			return nil, err
		}
		sendServerURL = config.Server.URL
	}
	if sendServerURL == "" {
		sendServerURL = "https://yeetfile.com"
	}
	return server.NewClient(sendServerURL, nil)
}

func sealSendName(key []byte, name string) (string, error) {
	envelope, err := crypto.Encrypt(key, []byte(name))
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(envelope), nil
}

func init() {
	sendUploadCmd.Flags().StringVar(&sendServerURL, "server", "", "server to upload to (defaults to the configured one)")
	sendUploadCmd.Flags().BoolVarP(&sendWithPassword, "password", "p", false, "additionally protect the send with a password")
	sendUploadCmd.Flags().DurationVar(&sendExpiresIn, "expires-in", 24*time.Hour, "how long the send stays available")
	sendUploadCmd.Flags().IntVar(&sendMaxDownloads, "max-downloads", 0, "maximum number of downloads (0 = unlimited)")
}
