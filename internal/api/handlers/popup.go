package handlers

import (
	"html"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mailru-checker/core/internal/cache"
	"github.com/mailru-checker/core/internal/i18n"
	"github.com/mailru-checker/core/internal/mailru"
	"github.com/mailru-checker/core/internal/services"
	"github.com/microcosm-cc/bluemonday"
)

// textPolicy strips any markup the provider may have leaked into subjects.
var textPolicy = bluemonday.StrictPolicy()

// PopupHandler renders the popup page: one block per account with its
// cached unread list, or the manual account-entry form when no accounts
// are configured.
type PopupHandler struct {
	accountService  *services.AccountService
	cache           *cache.Store
	webBaseURL      string
	unreadFilterURL string
}

// NewPopupHandler creates a new PopupHandler instance
func NewPopupHandler(accountService *services.AccountService, cacheStore *cache.Store, webBaseURL, unreadFilterURL string) *PopupHandler {
	return &PopupHandler{
		accountService:  accountService,
		cache:           cacheStore,
		webBaseURL:      webBaseURL,
		unreadFilterURL: unreadFilterURL,
	}
}

// popupAccount is one rendered account block.
type popupAccount struct {
	Email    string
	Count    int
	Messages []popupMessage
}

// popupMessage is one rendered unread row.
type popupMessage struct {
	Link    string
	From    string
	Subject string
}

// popupView is the template payload.
type popupView struct {
	Error           string
	Accounts        []popupAccount
	UnreadFilterURL string
	Strings         map[string]string
}

// Show renders the popup
// GET /
func (h *PopupHandler) Show(c *gin.Context) {
	view := popupView{
		UnreadFilterURL: h.unreadFilterURL,
		Strings:         popupStrings(),
	}

	accounts, err := h.accountService.ListAccounts()
	if err != nil {
		log.Printf("[Popup] Refresh failed: %v", err)
		view.Error = i18n.TWithData("popup_error", map[string]interface{}{"Error": err.Error()})
		c.HTML(http.StatusOK, "popup.html", view)
		return
	}

	snapshot, err := h.cache.Current()
	if err != nil {
		log.Printf("[Popup] Refresh failed: %v", err)
		view.Error = i18n.TWithData("popup_error", map[string]interface{}{"Error": err.Error()})
		c.HTML(http.StatusOK, "popup.html", view)
		return
	}

	for _, account := range accounts {
		block := popupAccount{Email: account.Email}
		for _, m := range snapshot.ByEmail[account.Email] {
			block.Messages = append(block.Messages, h.buildRow(m))
		}
		block.Count = len(block.Messages)
		view.Accounts = append(view.Accounts, block)
	}

	c.HTML(http.StatusOK, "popup.html", view)
}

// buildRow prepares one message row, re-deriving from and link through
// the shared helpers so stale cache shapes still render.
func (h *PopupHandler) buildRow(m mailru.Message) popupMessage {
	subject := m.Subject
	if subject == "" {
		subject = i18n.T("no_subject")
	}
	return popupMessage{
		Link:    mailru.EnsureLink(h.webBaseURL, m),
		From:    mailru.FormatFrom(mailru.FromField{Raw: m.From}),
		Subject: sanitizeText(subject),
	}
}

// AddAccount handles the manual-entry form and sends the browser back to
// the popup, which re-renders with the fresh account list.
// POST /popup/accounts
func (h *PopupHandler) AddAccount(c *gin.Context) {
	email := c.PostForm("email")
	if email != "" {
		if _, err := h.accountService.AddAccount(email); err != nil {
			log.Printf("[Popup] Add account failed: %v", err)
		}
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// sanitizeText strips markup and undoes the sanitizer's entity escaping,
// the template layer re-escapes for output.
func sanitizeText(s string) string {
	return html.UnescapeString(textPolicy.Sanitize(s))
}

// popupStrings collects the localized UI strings for the template.
func popupStrings() map[string]string {
	return map[string]string{
		"NoUnread":         i18n.T("no_unread"),
		"NoAccounts":       i18n.T("no_accounts"),
		"EmailPlaceholder": i18n.T("email_placeholder"),
		"Save":             i18n.T("save"),
		"MarkAllRead":      i18n.T("mark_all_read"),
		"MarkAllReadHint":  i18n.T("mark_all_read_hint"),
		"UnreadFilterHint": i18n.T("unread_filter_hint"),
	}
}
