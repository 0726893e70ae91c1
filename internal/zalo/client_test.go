package zalo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short ascii untouched", "hello", 10, "hello"},
		{"ascii cut", "hello", 3, "hel"},
		{"exact boundary", "hello", 5, "hello"},
		{"zero max passes through", "hello", 0, "hello"},
		{"vietnamese cut by characters", "ềềềềề", 3, "ềềề"},
		{"empty", "", 5, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestTruncate_CountsCharactersNotBytes(t *testing.T) {
	t.Parallel()

	// 3000 two-byte characters is 6000 bytes but only 3000 characters.
	long := strings.Repeat("ế", 3000)
	got := Truncate(long, MaxMessageLength)

	if n := utf8.RuneCountInString(got); n != MaxMessageLength {
		t.Errorf("truncated to %d characters, want %d", n, MaxMessageLength)
	}
	if !utf8.ValidString(got) {
		t.Error("truncation produced invalid UTF-8")
	}
}

func okJSON(result any) string {
	data, _ := json.Marshal(map[string]any{"ok": true, "result": result})
	return string(data)
}

func TestClient_SendMessage_TruncatesOutbound(t *testing.T) {
	t.Parallel()

	var gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotText = req.Text
		fmt.Fprint(w, okJSON(Message{MessageID: "m1"}))
	}))
	t.Cleanup(srv.Close)

	c := NewClient("tok", srv.URL)
	long := strings.Repeat("a", MaxMessageLength+500)
	if err := c.SendMessage(context.Background(), "chat1", long); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(gotText) != MaxMessageLength {
		t.Errorf("wire text %d characters, want %d", len(gotText), MaxMessageLength)
	}
}

func TestClient_GetMe(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/bottok/getMe") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, okJSON(User{ID: "b1", DisplayName: "Trợ lý"}))
	}))
	t.Cleanup(srv.Close)

	c := NewClient("tok", srv.URL)
	u, err := c.GetMe(context.Background())
	if err != nil {
		t.Fatalf("getMe: %v", err)
	}
	if u.DisplayName != "Trợ lý" {
		t.Errorf("display name = %q", u.DisplayName)
	}

	name, err := c.Identity(context.Background())
	if err != nil {
		t.Fatalf("identity: %v", err)
	}
	if name != "Trợ lý" {
		t.Errorf("identity = %q", name)
	}
}

func TestClient_APIErrorSurfaced(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"ok":false,"error_code":401,"description":"Unauthorized"}`)
	}))
	t.Cleanup(srv.Close)

	c := NewClient("bad", srv.URL)
	err := c.SendMessage(context.Background(), "chat1", "hi")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type %T, want *APIError", err)
	}
	if apiErr.Code != 401 {
		t.Errorf("code = %d, want 401", apiErr.Code)
	}
}

func TestClient_RetriesOn429(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"ok":false,"error_code":429,"description":"Too Many Requests"}`)
			return
		}
		fmt.Fprint(w, okJSON(Message{MessageID: "m1"}))
	}))
	t.Cleanup(srv.Close)

	c := NewClient("tok", srv.URL)
	if err := c.SendMessage(context.Background(), "chat1", "hi"); err != nil {
		t.Fatalf("send after retry: %v", err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("server saw %d calls, want 2", n)
	}
}

func TestClient_SetWebhook(t *testing.T) {
	t.Parallel()

	var gotReq map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		fmt.Fprint(w, okJSON(true))
	}))
	t.Cleanup(srv.Close)

	c := NewClient("tok", srv.URL)
	if err := c.SetWebhook(context.Background(), "https://example.com/webhook", "s3cret"); err != nil {
		t.Fatalf("setWebhook: %v", err)
	}
	if gotReq["url"] != "https://example.com/webhook" {
		t.Errorf("url = %q", gotReq["url"])
	}
	if gotReq["secret_token"] != "s3cret" {
		t.Errorf("secret_token = %q", gotReq["secret_token"])
	}
}
