package zalo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exam.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 test"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestClient_SendDocument_UploadThenReference(t *testing.T) {
	t.Parallel()

	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		methods = append(methods, method)

		switch method {
		case "uploadDocument":
			if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "multipart/form-data") {
				t.Errorf("upload content type = %q", ct)
			}
			fmt.Fprint(w, okJSON(Document{FileID: "f123"}))
		case "sendDocument":
			var req map[string]any
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode sendDocument: %v", err)
			}
			if req["document"] != "f123" {
				t.Errorf("document = %v, want f123", req["document"])
			}
			fmt.Fprint(w, okJSON(Message{MessageID: "m1"}))
		default:
			t.Errorf("unexpected method %s", method)
		}
	}))
	t.Cleanup(srv.Close)

	c := NewClient("tok", srv.URL)
	if err := c.SendDocument(context.Background(), "chat1", writeTestFile(t), "Đề thi"); err != nil {
		t.Fatalf("send document: %v", err)
	}
	want := []string{"uploadDocument", "sendDocument"}
	if len(methods) != 2 || methods[0] != want[0] || methods[1] != want[1] {
		t.Errorf("methods = %v, want %v", methods, want)
	}
}

func TestClient_SendDocument_FallsBackToMultipart(t *testing.T) {
	t.Parallel()

	var multipartSend bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		switch method {
		case "uploadDocument":
			fmt.Fprint(w, `{"ok":false,"error_code":400,"description":"upload unsupported"}`)
		case "sendDocument":
			if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
				multipartSend = true
				fmt.Fprint(w, okJSON(Message{MessageID: "m1"}))
				return
			}
			fmt.Fprint(w, `{"ok":false,"error_code":400,"description":"bad request"}`)
		}
	}))
	t.Cleanup(srv.Close)

	c := NewClient("tok", srv.URL)
	if err := c.SendDocument(context.Background(), "chat1", writeTestFile(t), ""); err != nil {
		t.Fatalf("send document: %v", err)
	}
	if !multipartSend {
		t.Error("direct multipart path was not used")
	}
}

func TestClient_SendDocument_BothPathsFail(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"ok":false,"error_code":500,"description":"broken"}`)
	}))
	t.Cleanup(srv.Close)

	c := NewClient("tok", srv.URL)
	err := c.SendDocument(context.Background(), "chat1", writeTestFile(t), "")
	if err == nil {
		t.Fatal("expected error when both delivery paths fail")
	}
}

func TestClient_SendDocument_MissingFile(t *testing.T) {
	t.Parallel()

	c := NewClient("tok", "http://127.0.0.1:1")
	err := c.SendDocument(context.Background(), "chat1", "/does/not/exist.pdf", "")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
