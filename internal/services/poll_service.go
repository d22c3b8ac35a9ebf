package services

import (
	"log"
	"sync"

	"github.com/mailru-checker/core/internal/badge"
	"github.com/mailru-checker/core/internal/cache"
	"github.com/mailru-checker/core/internal/database/models"
	"github.com/mailru-checker/core/internal/mailru"
)

// UnreadFetcher resolves the unread state for one mailbox. Implemented by
// the mailru client.
type UnreadFetcher interface {
	FetchUnread(email string) (mailru.UnreadResult, error)
}

// PollService runs the poll cycle: fetch every configured account,
// replace the cache snapshot, publish the badge.
type PollService struct {
	accountService *AccountService
	fetcher        UnreadFetcher
	cache          *cache.Store
	board          *badge.Board
	logService     *LogService
	badgeColor     string
	polling        sync.Mutex // in-flight guard, overlapping triggers are skipped
}

// NewPollService creates a new PollService instance
func NewPollService(accountService *AccountService, fetcher UnreadFetcher, cacheStore *cache.Store, board *badge.Board, logService *LogService, badgeColor string) *PollService {
	return &PollService{
		accountService: accountService,
		fetcher:        fetcher,
		cache:          cacheStore,
		board:          board,
		logService:     logService,
		badgeColor:     badgeColor,
	}
}

// PollAll runs one full poll cycle. Overlapping triggers (a timer tick
// landing during a manual sync) are skipped rather than interleaved, so
// there is always a single writer to the snapshot. Errors never reach
// the caller; the worst case is a stale snapshot.
func (s *PollService) PollAll() {
	if !s.polling.TryLock() {
		log.Println("[Poller] Previous cycle still running, skipping this trigger")
		return
	}
	defer s.polling.Unlock()

	if err := s.pollOnce(); err != nil {
		log.Printf("[Poller] Poll cycle failed: %v", err)
		s.logService.LogError(models.LogModulePoll, "cycle", "Poll cycle failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *PollService) pollOnce() error {
	accounts, err := s.accountService.ListAccounts()
	if err != nil {
		return err
	}

	if len(accounts) == 0 {
		s.board.Clear()
		if _, err := s.cache.Reset(); err != nil {
			return err
		}
		return nil
	}

	totalUnread := 0
	byEmail := make(map[string][]mailru.Message, len(accounts))
	haveAny := false

	for _, account := range accounts {
		result, err := s.fetcher.FetchUnread(account.Email)
		if err != nil {
			// One failing account never aborts the batch
			log.Printf("[Poller] Poll error for %s: %v", account.Email, err)
			s.logService.LogWarn(models.LogModulePoll, "fetch", "Account fetch failed", map[string]interface{}{
				"email": account.Email,
				"error": err.Error(),
			})
			byEmail[account.Email] = []mailru.Message{}
			continue
		}

		messages := result.Messages
		if messages == nil {
			messages = []mailru.Message{}
		}
		byEmail[account.Email] = messages
		if len(messages) > 0 {
			haveAny = true
		}

		count := result.Count
		if count == 0 {
			count = len(messages)
		}
		totalUnread += count
	}

	snapshot, err := s.cache.Replace(byEmail)
	if err != nil {
		return err
	}

	icon := badge.IconDefault
	if haveAny {
		icon = badge.IconActive
	}
	s.board.Publish(badge.FormatText(totalUnread), s.badgeColor, icon)

	s.logService.LogInfo(models.LogModulePoll, "cycle", "Poll cycle completed", map[string]interface{}{
		"accounts":     len(accounts),
		"total_unread": totalUnread,
		"version":      snapshot.Version,
	})
	return nil
}
