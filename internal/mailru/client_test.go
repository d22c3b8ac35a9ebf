package mailru

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestClient points every endpoint at the given test servers. The web
// base stays the real one so derived links are recognizable.
func newTestClient(tokenURL, unreadURL, naviURL string) *Client {
	return NewClient(ClientConfig{
		TokenEndpoint:    tokenURL,
		UnreadEndpoint:   unreadURL,
		NaviDataEndpoint: naviURL,
		WebBaseURL:       "https://e.mail.ru",
		NoSubject:        "(без темы)",
	})
}

func TestFetchToken(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
		fails  bool
	}{
		{"token nested in body", http.StatusOK, `{"body":{"token":"tok-1"}}`, "tok-1", false},
		{"token at top level", http.StatusOK, `{"token":"tok-2"}`, "tok-2", false},
		{"nested token preferred", http.StatusOK, `{"body":{"token":"inner"},"token":"outer"}`, "inner", false},
		{"garbled body yields empty token", http.StatusOK, `<html>not json</html>`, "", false},
		{"empty object yields empty token", http.StatusOK, `{}`, "", false},
		{"server error fails", http.StatusInternalServerError, ``, "", true},
		{"auth error fails", http.StatusForbidden, ``, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("email") != "user@mail.ru" {
					t.Errorf("missing email query, got %q", r.URL.RawQuery)
				}
				if r.URL.Query().Get("x-email") != "user@mail.ru" {
					t.Errorf("missing x-email query, got %q", r.URL.RawQuery)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(server.URL, server.URL, server.URL)
			token, err := client.FetchToken("user@mail.ru")

			if tt.fails {
				if !errors.Is(err, ErrTokenFetchFailed) {
					t.Fatalf("expected ErrTokenFetchFailed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if token != tt.want {
				t.Errorf("token = %q, want %q", token, tt.want)
			}
		})
	}
}

func TestFetchUnread_ListPath(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"body":{"token":"tok"}}`))
	}))
	defer tokenServer.Close()

	listServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") != "tok" {
			t.Errorf("token not forwarded, got %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{"body":[{"id":"5:abc","subject":"Hi","from":"Bob"}]}`))
	}))
	defer listServer.Close()

	client := newTestClient(tokenServer.URL, listServer.URL, "")
	result, err := client.FetchUnread("user@mail.ru")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Count != 1 || len(result.Messages) != 1 {
		t.Fatalf("count = %d, messages = %d, want 1 and 1", result.Count, len(result.Messages))
	}

	msg := result.Messages[0]
	if msg.ID != "5:abc" {
		t.Errorf("id = %q, want %q", msg.ID, "5:abc")
	}
	if msg.Subject != "Hi" {
		t.Errorf("subject = %q, want %q", msg.Subject, "Hi")
	}
	if msg.From != "Bob" {
		t.Errorf("from = %q, want %q", msg.From, "Bob")
	}
	if msg.Link != "https://e.mail.ru/5/abc/" {
		t.Errorf("link = %q, want %q", msg.Link, "https://e.mail.ru/5/abc/")
	}
	if msg.Fid != "5" {
		t.Errorf("fid = %q, want %q", msg.Fid, "5")
	}
}

func TestFetchUnread_FieldVariants(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"tok"}`))
	}))
	defer tokenServer.Close()

	// Numeric ids, alternate spellings, correspondent object, no subject.
	listServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[
			{"mid":12345,"fid":2,"correspondents":{"from":[{"name":"Alice","email":"alice@mail.ru"}]}},
			{"msgid":"xyz","subj":"Re: hello","sender":"carol@mail.ru","url":"https://e.mail.ru/direct/"}
		]}`))
	}))
	defer listServer.Close()

	client := newTestClient(tokenServer.URL, listServer.URL, "")
	result, err := client.FetchUnread("user@mail.ru")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(result.Messages))
	}

	first := result.Messages[0]
	if first.ID != "12345" || first.Fid != "2" {
		t.Errorf("first id/fid = %q/%q, want 12345/2", first.ID, first.Fid)
	}
	if first.From != "Alice <alice@mail.ru>" {
		t.Errorf("first from = %q, want %q", first.From, "Alice <alice@mail.ru>")
	}
	if first.Subject != "(без темы)" {
		t.Errorf("first subject = %q, want placeholder", first.Subject)
	}
	if first.Link != "https://e.mail.ru/message/12345/" {
		t.Errorf("first link = %q", first.Link)
	}

	second := result.Messages[1]
	if second.ID != "xyz" || second.Subject != "Re: hello" || second.From != "carol@mail.ru" {
		t.Errorf("second message = %+v", second)
	}
	if second.Link != "https://e.mail.ru/direct/" {
		t.Errorf("second link = %q, want the provider link", second.Link)
	}
}

func TestFetchUnread_NaviDataFallback(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer tokenServer.Close()

	naviServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cookie") != "Mpop=abc" {
			t.Errorf("cookie not forwarded, got %q", r.Header.Get("Cookie"))
		}
		w.Write([]byte(`{"status":"OK","data":[{"messages":{"unread": 7}}]}`))
	}))
	defer naviServer.Close()

	client := NewClient(ClientConfig{
		TokenEndpoint:    tokenServer.URL,
		UnreadEndpoint:   tokenServer.URL,
		NaviDataEndpoint: naviServer.URL,
		WebBaseURL:       "https://e.mail.ru",
		SessionCookie:    "Mpop=abc",
	})

	result, err := client.FetchUnread("user@mail.ru")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Count != 7 {
		t.Errorf("count = %d, want 7", result.Count)
	}
	if len(result.Messages) != 0 {
		t.Errorf("messages = %d, want none on the fallback path", len(result.Messages))
	}
}

func TestFetchUnread_BothTiersDown(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	client := newTestClient(down.URL, down.URL, down.URL)
	result, err := client.FetchUnread("user@mail.ru")
	if err != nil {
		t.Fatalf("fetch must degrade, not fail: %v", err)
	}
	if result.Count != 0 || len(result.Messages) != 0 {
		t.Errorf("result = %+v, want zero data", result)
	}
}

func TestFetchUnread_MalformedListDegrades(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"tok"}`))
	}))
	defer tokenServer.Close()

	listServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"body":{"threads":17}}`))
	}))
	defer listServer.Close()

	naviServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`no counts here`))
	}))
	defer naviServer.Close()

	client := newTestClient(tokenServer.URL, listServer.URL, naviServer.URL)
	result, err := client.FetchUnread("user@mail.ru")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Count != 0 || len(result.Messages) != 0 {
		t.Errorf("result = %+v, want zero data for unusable bodies", result)
	}
}

func TestDecodeMessageList(t *testing.T) {
	t.Run("envelope priority order", func(t *testing.T) {
		raws, err := decodeMessageList([]byte(`{"data":[{"id":"d"}],"body":[{"id":"b"}]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(raws) != 1 || raws[0].messageID() != "b" {
			t.Errorf("body must win over data, got %v", raws)
		}
	})

	t.Run("non-array fields skipped", func(t *testing.T) {
		raws, err := decodeMessageList([]byte(`{"body":"nope","items":[{"id":"i"}]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(raws) != 1 || raws[0].messageID() != "i" {
			t.Errorf("expected the items array, got %v", raws)
		}
	})

	t.Run("empty array is valid", func(t *testing.T) {
		raws, err := decodeMessageList([]byte(`{"messages":[]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(raws) != 0 {
			t.Errorf("expected no messages, got %v", raws)
		}
	})

	t.Run("unknown shape is rejected", func(t *testing.T) {
		_, err := decodeMessageList([]byte(`{"threads":{"count":3}}`))
		if !errors.Is(err, ErrUnrecognizedShape) {
			t.Errorf("expected ErrUnrecognizedShape, got %v", err)
		}
	})
}
