package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/msomdec/todolist/internal/handler"
	"github.com/msomdec/todolist/internal/repository/memory"
	"github.com/msomdec/todolist/internal/service"
)

func newTestAccounts(t *testing.T) (*service.AccountService, *service.TaskService) {
	t.Helper()
	store := memory.New()
	accounts := service.NewAccountService(store.Users(), service.NewPrefixResolver(store.Users()), service.PlainPasswords{})
	return accounts, service.NewTaskService(store.Todos())
}

// newTestServer serves the full route table and middleware chain.
func newTestServer(t *testing.T, limiter *service.RateLimiter) *httptest.Server {
	t.Helper()
	accounts, tasks := newTestAccounts(t)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, accounts, tasks, limiter)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(handler.Middleware(mux, logger, []string{"https://app.example.com"}))
	t.Cleanup(srv.Close)
	return srv
}

// doJSON sends body (if non-nil) as JSON with an optional bearer token and
// decodes the response into a generic map.
func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			buf, err := json.Marshal(b)
			if err != nil {
				t.Fatalf("marshal body: %v", err)
			}
			reader = bytes.NewReader(buf)
		}
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode body %q: %v", raw, err)
		}
	}
	return resp, decoded
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("%s %s: expected %d, got %d", resp.Request.Method, resp.Request.URL.Path, want, resp.StatusCode)
	}
}
