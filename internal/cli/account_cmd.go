package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// accountCmd represents the account command group
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Watched mailbox management",
	Long:  `Manage the watched mailboxes: add a mailbox or list the current ones.`,
}

// accountAddCmd adds a mailbox to the watch list
var accountAddCmd = &cobra.Command{
	Use:   "add <email>",
	Short: "Add a mailbox to the watch list",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		account, err := accountService.AddAccount(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to add account: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Watching %s\n", account.Email)
	},
}

// accountListCmd lists the watched mailboxes
var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the watched mailboxes",
	Run: func(cmd *cobra.Command, args []string) {
		accounts, err := accountService.ListAccounts()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to list accounts: %v\n", err)
			os.Exit(1)
		}
		if len(accounts) == 0 {
			fmt.Println("No mailboxes configured.")
			return
		}
		for _, account := range accounts {
			fmt.Println(account.Email)
		}
	},
}

func init() {
	accountCmd.AddCommand(accountAddCmd)
	accountCmd.AddCommand(accountListCmd)
}
