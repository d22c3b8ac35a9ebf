package mailru

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"
)

var (
	// ErrTokenFetchFailed indicates the token endpoint returned a non-success status
	ErrTokenFetchFailed = errors.New("token fetch failed")
	// ErrUnrecognizedShape indicates no known envelope field carried a message array
	ErrUnrecognizedShape = errors.New("unrecognized response shape")
)

// unreadPattern recovers a bare unread count from the legacy portal body.
var unreadPattern = regexp.MustCompile(`(?i)"unread":\s*(\d+)`)

// ClientConfig holds the remote endpoints and request parameters.
type ClientConfig struct {
	TokenEndpoint    string
	UnreadEndpoint   string
	NaviDataEndpoint string
	WebBaseURL       string
	SessionCookie    string // attached to the legacy portal request
	FetchLimit       int
	NoSubject        string // localized placeholder for messages without a subject
	Timeout          time.Duration
}

// Client talks to the unofficial Mail.ru checker API. The API carries no
// stability contract, so every response is parsed defensively and the
// legacy portal scrape backs up the structured path.
type Client struct {
	cfg  ClientConfig
	http *http.Client
}

// UnreadResult is the per-account outcome of one fetch.
type UnreadResult struct {
	Count    int
	Messages []Message
}

// NewClient creates a checker API client
func NewClient(cfg ClientConfig) *Client {
	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = 50
	}
	if cfg.NoSubject == "" {
		cfg.NoSubject = "(без темы)"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// FetchToken obtains a session token for the given mailbox.
func (c *Client) FetchToken(email string) (string, error) {
	reqURL := fmt.Sprintf("%s?email=%s&x-email=%s",
		c.cfg.TokenEndpoint, url.QueryEscape(email), url.QueryEscape(email))

	resp, err := c.http.Get(reqURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", ErrTokenFetchFailed, resp.StatusCode)
	}

	var envelope struct {
		Body struct {
			Token string `json:"token"`
		} `json:"body"`
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		// A garbled body still counts as "no token", same as the source behavior
		return "", nil
	}
	if envelope.Body.Token != "" {
		return envelope.Body.Token, nil
	}
	return envelope.Token, nil
}

// FetchUnread resolves the unread count and message list for one account.
// The structured list endpoint is tried first; when it yields nothing the
// legacy portal body is scanned for a bare count. Failures on either tier
// degrade to zero data, they never abort the caller's batch.
func (c *Client) FetchUnread(email string) (UnreadResult, error) {
	result := UnreadResult{Messages: []Message{}}

	if msgs, err := c.fetchUnreadList(email); err != nil {
		log.Printf("[Checker] unread list error for %s: %v", email, err)
	} else {
		result.Messages = msgs
		result.Count = len(msgs)
	}

	if result.Count == 0 {
		count, err := c.fetchNaviDataCount()
		if err != nil {
			log.Printf("[Checker] NaviData fallback error for %s: %v", email, err)
		} else {
			result.Count = count
		}
	}

	return result, nil
}

// fetchUnreadList is the primary tier: token, then the status/unread list.
func (c *Client) fetchUnreadList(email string) ([]Message, error) {
	token, err := c.FetchToken(email)
	if err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s?email=%s&x-email=%s&token=%s&limit=%d",
		c.cfg.UnreadEndpoint,
		url.QueryEscape(email), url.QueryEscape(email),
		url.QueryEscape(token), c.cfg.FetchLimit)

	resp, err := c.http.Get(reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unread list fetch failed: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	raws, err := decodeMessageList(body)
	if err != nil {
		// Malformed or unknown envelope is "no data", not a hard failure
		log.Printf("[Checker] list body for %s not usable: %v", email, err)
		return []Message{}, nil
	}

	msgs := make([]Message, 0, len(raws))
	for _, raw := range raws {
		msgs = append(msgs, c.normalizeMessage(raw))
	}
	return msgs, nil
}

// decodeMessageList validates the response envelope against the known
// shapes: a message array at body, data, items or messages, tried in that
// priority order. Anything else is an explicit ErrUnrecognizedShape.
func decodeMessageList(data []byte) ([]rawMessage, error) {
	var envelope struct {
		Body     json.RawMessage `json:"body"`
		Data     json.RawMessage `json:"data"`
		Items    json.RawMessage `json:"items"`
		Messages json.RawMessage `json:"messages"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}

	for _, field := range []json.RawMessage{envelope.Body, envelope.Data, envelope.Items, envelope.Messages} {
		trimmed := bytes.TrimSpace(field)
		if len(trimmed) == 0 || trimmed[0] != '[' {
			continue
		}
		var raws []rawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, err
		}
		return raws, nil
	}

	return nil, ErrUnrecognizedShape
}

// normalizeMessage maps one raw API item to the cached Message shape.
func (c *Client) normalizeMessage(raw rawMessage) Message {
	id := raw.messageID()
	fid := raw.folderID()

	subject := raw.subject()
	if subject == "" {
		subject = c.cfg.NoSubject
	}

	return Message{
		ID:      id,
		Subject: subject,
		From:    FormatFrom(raw.fromField()),
		Link:    BuildLink(c.cfg.WebBaseURL, fid, id, raw.directLink()),
		Fid:     FolderOf(fid, id),
	}
}

// fetchNaviDataCount is the legacy tier: scrape the portal body for a
// bare unread count. No message details are available on this path.
func (c *Client) fetchNaviDataCount() (int, error) {
	req, err := http.NewRequest(http.MethodGet, c.cfg.NaviDataEndpoint, nil)
	if err != nil {
		return 0, err
	}
	// The extension relied on browser session cookies; here an explicit
	// cookie header from the configuration stands in for them.
	if c.cfg.SessionCookie != "" {
		req.Header.Set("Cookie", c.cfg.SessionCookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("NaviData fetch failed: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	match := unreadPattern.FindSubmatch(body)
	if match == nil {
		return 0, nil
	}
	count, err := strconv.Atoi(string(match[1]))
	if err != nil {
		return 0, nil
	}
	return count, nil
}
