package cli

import (
	"fmt"
	"os"

	"github.com/mailru-checker/core/internal/badge"
	"github.com/mailru-checker/core/internal/cache"
	"github.com/mailru-checker/core/internal/mailru"
	"github.com/mailru-checker/core/internal/services"
	"github.com/spf13/cobra"
)

// pollCmd runs a single poll cycle and prints the resulting badge state
var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Run a single poll cycle",
	Long:  `Fetch unread state for every watched mailbox once and print the badge summary.`,
	Run: func(cmd *cobra.Command, args []string) {
		cacheStore, err := cache.Open(cfg.CachePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open cache: %v\n", err)
			os.Exit(1)
		}
		defer cacheStore.Close()

		board := badge.NewBoard()
		logService := services.NewLogServiceWithLevel(db, cfg.LogLevel)
		fetcher := mailru.NewClient(mailru.ClientConfig{
			TokenEndpoint:    cfg.TokenEndpoint,
			UnreadEndpoint:   cfg.UnreadEndpoint,
			NaviDataEndpoint: cfg.NaviDataEndpoint,
			WebBaseURL:       cfg.WebBaseURL,
			SessionCookie:    cfg.SessionCookie,
			FetchLimit:       cfg.FetchLimit,
		})
		pollService := services.NewPollService(accountService, fetcher, cacheStore, board, logService, cfg.BadgeColor)

		pollService.PollAll()

		snapshot, err := cacheStore.Current()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to read cache: %v\n", err)
			os.Exit(1)
		}

		indicator := board.Current()
		if indicator.Text == "" {
			fmt.Println("No unread messages.")
		} else {
			fmt.Printf("Unread: %s\n", indicator.Text)
		}
		for email, messages := range snapshot.ByEmail {
			fmt.Printf("  %s: %d\n", email, len(messages))
		}
	},
}
