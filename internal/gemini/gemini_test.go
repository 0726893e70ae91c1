package gemini

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// sseServer returns a test server that answers every request with the given
// SSE lines.
func sseServer(t *testing.T, lines ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, line := range lines {
			fmt.Fprintf(w, "%s\n", line)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return NewClient(Config{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
	}, nil)
}

func chunkLine(text string) string {
	return fmt.Sprintf(`data: {"candidates":[{"content":{"parts":[{"text":%q}]}}]}`, text)
}

func TestClient_Complete_ConcatenatesStream(t *testing.T) {
	t.Parallel()

	srv := sseServer(t,
		chunkLine("Xin "),
		chunkLine("chào "),
		chunkLine("bạn!"),
	)
	c := testClient(t, srv.URL)

	got := c.Complete(context.Background(), "chào", "", false)
	if got != "Xin chào bạn!" {
		t.Errorf("got %q", got)
	}
}

func TestClient_Complete_EmptyStreamYieldsApology(t *testing.T) {
	t.Parallel()

	srv := sseServer(t, ": keepalive")
	c := testClient(t, srv.URL)

	if got := c.Complete(context.Background(), "chào", "", false); got != Apology {
		t.Errorf("got %q, want apology", got)
	}
}

func TestClient_Complete_APIErrorYieldsApology(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"message":"API key not valid","status":"PERMISSION_DENIED"}}`)
	}))
	t.Cleanup(srv.Close)
	c := testClient(t, srv.URL)

	if got := c.Complete(context.Background(), "chào", "", false); got != Apology {
		t.Errorf("got %q, want apology", got)
	}
}

func TestClient_Complete_UnreachableServerYieldsApology(t *testing.T) {
	t.Parallel()

	c := testClient(t, "http://127.0.0.1:1")
	if got := c.Complete(context.Background(), "chào", "", false); got != Apology {
		t.Errorf("got %q, want apology", got)
	}
}

func TestClient_Complete_SendsContextBlock(t *testing.T) {
	t.Parallel()

	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintln(w, chunkLine("ok"))
	}))
	t.Cleanup(srv.Close)
	c := testClient(t, srv.URL)

	c.Complete(context.Background(), "tiếp theo?", "User: 2+2?\nBot: 4", false)

	if !strings.Contains(gotBody, "Ngữ cảnh cuộc trò chuyện trước đó") {
		t.Error("context block missing from prompt")
	}
	if !strings.Contains(gotBody, "2+2?") {
		t.Error("history content missing from prompt")
	}
}

func TestClient_Complete_SearchToolWiring(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		msg        string
		force      bool
		wantSearch bool
	}{
		{"plain chat", "kể chuyện cười", false, false},
		{"keyword triggers", "giá vàng bao nhiêu", false, true},
		{"forced", "kể chuyện cười", true, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotBody string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				b, _ := io.ReadAll(r.Body)
				gotBody = string(b)
				w.Header().Set("Content-Type", "text/event-stream")
				fmt.Fprintln(w, chunkLine("ok"))
			}))
			t.Cleanup(srv.Close)
			c := testClient(t, srv.URL)

			c.Complete(context.Background(), tt.msg, "", tt.force)

			hasSearch := strings.Contains(gotBody, "google_search")
			if hasSearch != tt.wantSearch {
				t.Errorf("google_search in body = %v, want %v", hasSearch, tt.wantSearch)
			}
		})
	}
}

func TestShouldSearch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		msg  string
		want bool
	}{
		{"tin tức hôm nay", true},
		{"GIÁ vàng", true},
		{"thời tiết Hà Nội", true},
		{"what is Go?", true},
		{"kể một câu chuyện cười", false},
		{"", false},
		{"giải bài toán này", false},
	}
	for _, tt := range tests {
		if got := ShouldSearch(tt.msg); got != tt.want {
			t.Errorf("ShouldSearch(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}

func TestExtractJSONObject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"markdown fence", "```json\n{\"a\":1}\n```", `{"a":1}`, true},
		{"prose around", `Đây là đề thi: {"a":{"b":2}} chúc may mắn`, `{"a":{"b":2}}`, true},
		{"braces inside string", `{"q":"tính {x}"}`, `{"q":"tính {x}"}`, true},
		{"escaped quote in string", `{"q":"nói \"chào\" đi"}`, `{"q":"nói \"chào\" đi"}`, true},
		{"unbalanced", `{"a":1`, "", false},
		{"no object", "không có JSON", "", false},
		{"stray close before open", `} {"a":1}`, `{"a":1}`, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ExtractJSONObject(tt.in)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
