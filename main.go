package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skynet-05/yeetfile-sub000/cmd"
)

var rootCmd = &cobra.Command{
	Use:   "yeetfile",
	Short: "yeetfile - An end-to-end-encrypted file and password vault.",
	Long: `yeetfile stores files and password entries in an end-to-end-encrypted
vault, organizes them into nested folders, shares individual items with
other users, and transfers content through a server that never sees
plaintext or unwrapped keys.

Available Commands:
  account    Sign up, log in, and log out
  vault      Browse, upload, download, and share vault content
  send       Share a file without an account via a one-time link

Run 'yeetfile help <command>' for more details on a specific command.
`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Run 'yeetfile --help' to see available commands.")
	},
}

func main() {
	rootCmd.AddCommand(cmd.AccountCmd)
	rootCmd.AddCommand(cmd.VaultCmd)
	rootCmd.AddCommand(cmd.SendCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
