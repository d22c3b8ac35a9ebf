package cli

import (
	"fmt"
	"os"

	"github.com/mailru-checker/core/internal/api/middleware"
	"github.com/mailru-checker/core/internal/config"
	"github.com/mailru-checker/core/internal/services"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	db             *gorm.DB
	cfg            *config.Config
	apiKeyManager  *middleware.APIKeyManager
	accountService *services.AccountService
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mailru_checker",
	Short: "Mail.ru unread checker backend service",
	Long: `Mail.ru unread checker polls the configured mailboxes for unread
messages and serves the badge state and popup to its clients.

This command line tool provides:
  - key management: show and reset the API key
  - account management: add and list watched mailboxes
  - poll: run a single poll cycle and print the result

Examples:
  mailru_checker key show            # show the current API key
  mailru_checker key reset           # reset the API key
  mailru_checker account add a@b.ru  # watch a mailbox
  mailru_checker account list        # list watched mailboxes
  mailru_checker poll                # run one poll cycle`,
}

// Execute runs the CLI with the provided database and config
func Execute(database *gorm.DB, config *config.Config) {
	db = database
	cfg = config

	var err error
	apiKeyManager, err = middleware.NewAPIKeyManager(cfg.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize API key manager: %v\n", err)
		os.Exit(1)
	}

	accountService = services.NewAccountService(db)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(pollCmd)
}
