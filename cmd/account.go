package cmd

import (
	logger "github.com/skynet-05/yeetfile-sub000/internal/logging"
	"github.com/spf13/cobra"
)

var (
	accountVerbose bool
	accountDebug   bool

	AccountCmd = &cobra.Command{
		Use:   "account",
		Short: "Sign up, log in, and log out",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: accountVerbose,
				Debug:   accountDebug,
			}
		},
	}
)

func init() {
	AccountCmd.PersistentFlags().BoolVarP(&accountVerbose, "verbose", "v", false, "enable verbose output")
	AccountCmd.PersistentFlags().BoolVarP(&accountDebug, "debug", "d", false, "enable debug output")

	AccountCmd.AddCommand(signupCmd)
	AccountCmd.AddCommand(loginCmd)
	AccountCmd.AddCommand(logoutCmd)
}
