package cmd

import (
	logger "github.com/skynet-05/yeetfile-sub000/internal/logging"
	"github.com/spf13/cobra"
)

var (
	sendVerbose bool
	sendDebug   bool

	SendCmd = &cobra.Command{
		Use:   "send",
		Short: "Share a file without an account via a one-time link",
		Long: `Send uploads an encrypted file and prints a link whose fragment carries
the bearer secret. The fragment never reaches the server, so the server
can never decrypt what it stores.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: sendVerbose,
				Debug:   sendDebug,
			}
		},
	}
)

func init() {
	SendCmd.PersistentFlags().BoolVarP(&sendVerbose, "verbose", "v", false, "enable verbose output")
	SendCmd.PersistentFlags().BoolVarP(&sendDebug, "debug", "d", false, "enable debug output")

	SendCmd.AddCommand(sendUploadCmd)
	SendCmd.AddCommand(sendDownloadCmd)
}
