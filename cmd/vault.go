package cmd

import (
	logger "github.com/skynet-05/yeetfile-sub000/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	VaultCmd = &cobra.Command{
		Use:   "vault",
		Short: "Browse, upload, download, and share encrypted vault content",
		Long:  `Provides listing, folder creation, upload, download, sharing, and revocation for the encrypted vault.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing vault command with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	VaultCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	VaultCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	VaultCmd.AddCommand(lsCmd)
	VaultCmd.AddCommand(mkdirCmd)
	VaultCmd.AddCommand(uploadCmd)
	VaultCmd.AddCommand(downloadCmd)
	VaultCmd.AddCommand(shareCmd)
	VaultCmd.AddCommand(revokeCmd)
}
