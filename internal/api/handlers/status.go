package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mailru-checker/core/internal/badge"
	"github.com/mailru-checker/core/internal/cache"
	"github.com/mailru-checker/core/internal/database/models"
	"github.com/mailru-checker/core/internal/services"
)

// StatusHandler exposes read-only state and the manual poll trigger.
type StatusHandler struct {
	accountService *services.AccountService
	pollService    *services.PollService
	cache          *cache.Store
	board          *badge.Board
}

// NewStatusHandler creates a new StatusHandler instance
func NewStatusHandler(accountService *services.AccountService, pollService *services.PollService, cacheStore *cache.Store, board *badge.Board) *StatusHandler {
	return &StatusHandler{
		accountService: accountService,
		pollService:    pollService,
		cache:          cacheStore,
		board:          board,
	}
}

// GetState returns the account list and the cached snapshot
// GET /api/state
func (h *StatusHandler) GetState(c *gin.Context) {
	accounts, err := h.accountService.ListAccounts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to retrieve accounts",
			},
		})
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}

	snapshot, err := h.cache.Current()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to read cache",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"accounts":   accounts,
			"cache":      snapshot.ByEmail,
			"version":    snapshot.Version,
			"fetched_at": snapshot.FetchedAt.Unix(),
		},
	})
}

// GetBadge returns the currently published toolbar indicator
// GET /api/badge
func (h *StatusHandler) GetBadge(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.board.Current(),
	})
}

// TriggerPoll runs one poll cycle immediately
// POST /api/poll
func (h *StatusHandler) TriggerPoll(c *gin.Context) {
	h.pollService.PollAll()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.board.Current(),
	})
}
