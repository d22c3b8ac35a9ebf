package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mailru-checker/core/internal/cache"
	"github.com/mailru-checker/core/internal/database/models"
	"github.com/mailru-checker/core/internal/services"
)

// CommandHandler is the message-passing endpoint: one entry point
// dispatching on a type tag, every case wrapped so the caller always
// gets a response shape instead of a thrown error.
type CommandHandler struct {
	accountService *services.AccountService
	pollService    *services.PollService
	cache          *cache.Store
	logService     *services.LogService
}

// NewCommandHandler creates a new CommandHandler instance
func NewCommandHandler(accountService *services.AccountService, pollService *services.PollService, cacheStore *cache.Store, logService *services.LogService) *CommandHandler {
	return &CommandHandler{
		accountService: accountService,
		pollService:    pollService,
		cache:          cacheStore,
		logService:     logService,
	}
}

// commandRequest carries the type tag plus the union of all command
// payloads. Account entries may be bare email strings or {email} records.
type commandRequest struct {
	Type     string            `json:"type"`
	Email    string            `json:"email"`
	Accounts []json.RawMessage `json:"accounts"`
	ID       json.RawMessage   `json:"id"`
}

// Dispatch routes a command by its type tag.
// POST /api/command
func (h *CommandHandler) Dispatch(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Command] Panic in dispatch: %v", r)
			c.JSON(http.StatusOK, gin.H{"ok": false, "error": fmt.Sprint(r)})
		}
	}()

	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// No usable type tag: answer with an empty object so the caller's
		// empty-object fallback kicks in
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	switch req.Type {
	case "getState":
		h.getState(c)
	case "syncAccounts":
		h.syncAccounts(c, req)
	case "addAccount":
		h.addAccount(c, req)
	case "markRead":
		h.markRead(c, req)
	default:
		c.JSON(http.StatusOK, gin.H{})
	}
}

// getState returns the account list and the cached snapshot, read-only.
func (h *CommandHandler) getState(c *gin.Context) {
	accounts, err := h.accountService.ListAccounts()
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}

	snapshot, err := h.cache.Current()
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accounts":   accounts,
		"cache":      snapshot.ByEmail,
		"version":    snapshot.Version,
		"fetched_at": snapshot.FetchedAt.Unix(),
	})
}

// syncAccounts replaces the stored account list wholesale and runs an
// immediate poll. Bare strings become account records; entries without
// an email are dropped.
func (h *CommandHandler) syncAccounts(c *gin.Context, req commandRequest) {
	emails := make([]string, 0, len(req.Accounts))
	for _, entry := range req.Accounts {
		if email := decodeAccountEntry(entry); email != "" {
			emails = append(emails, email)
		}
	}

	if _, err := h.accountService.ReplaceAccounts(emails); err != nil {
		c.JSON(http.StatusOK, gin.H{"ok": false, "error": err.Error()})
		return
	}

	h.pollService.PollAll()

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// addAccount appends one account without triggering a poll.
func (h *CommandHandler) addAccount(c *gin.Context, req commandRequest) {
	if req.Email == "" {
		c.JSON(http.StatusOK, gin.H{"ok": false, "error": services.ErrInvalidEmail.Error()})
		return
	}

	if _, err := h.accountService.AddAccount(req.Email); err != nil {
		c.JSON(http.StatusOK, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// markRead is the remote read-state mutation that was never completed
// upstream; it always reports failure so callers can surface it.
func (h *CommandHandler) markRead(c *gin.Context, req commandRequest) {
	log.Println("[Command] markRead is not implemented")
	h.logService.LogWarn(models.LogModuleAPI, "markRead", "markRead requested but not implemented", map[string]interface{}{
		"email": req.Email,
	})
	c.JSON(http.StatusOK, gin.H{"ok": false})
}

// decodeAccountEntry accepts "user@mail.ru" or {"email": "user@mail.ru"}
// and returns the email, empty when the entry carries none.
func decodeAccountEntry(entry json.RawMessage) string {
	var email string
	if err := json.Unmarshal(entry, &email); err == nil {
		return email
	}
	var record struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(entry, &record); err == nil {
		return record.Email
	}
	return ""
}
