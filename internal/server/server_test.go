package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"lnr/internal/api"
	"lnr/internal/command"
	"lnr/internal/metrics"
	"lnr/internal/models"
	"lnr/internal/store"
)

func newTestServer(t *testing.T, interpreter command.Interpreter) (*Server, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New("127.0.0.1:0", st, logger, Options{
		Driver:      "sqlite",
		Version:     "test",
		Interpreter: interpreter,
	})
	return srv, st
}

func doRequest(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch v := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeResponse[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, message string, code int) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected %d, got %d (%s)", status, w.Code, w.Body.String())
	}
	errResp := decodeResponse[api.ErrorResponse](t, w)
	if message != "" && errResp.Error != message {
		t.Fatalf("expected error %q, got %q", message, errResp.Error)
	}
	if code != 0 && errResp.ErrorCode != code {
		t.Fatalf("expected error_code %d, got %d", code, errResp.ErrorCode)
	}
}

func seedTestMember(t *testing.T, st store.TaskStore, name string, createdAt time.Time) models.TeamMember {
	t.Helper()
	member := models.TeamMember{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		CreatedAt: createdAt,
	}
	if err := st.UpsertMember(context.Background(), &member); err != nil {
		t.Fatalf("upsert member: %v", err)
	}
	return member
}

func createTestTask(t *testing.T, h http.Handler, req api.TaskCreateRequest) api.TaskResponse {
	t.Helper()
	w := doRequest(t, h, http.MethodPost, "/api/tasks", req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create task: expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	return decodeResponse[api.TaskResponse](t, w)
}

func TestListenAddrRemoteGuard(t *testing.T) {
	t.Run("allows loopback", func(t *testing.T) {
		t.Setenv(allowRemoteEnvKey, "")
		addr, err := ListenAddr("http://127.0.0.1:7433")
		if err != nil {
			t.Fatalf("expected loopback to be allowed, got error: %v", err)
		}
		if addr != "127.0.0.1:7433" {
			t.Fatalf("unexpected addr: %s", addr)
		}
	})

	t.Run("blocks non-loopback by default", func(t *testing.T) {
		t.Setenv(allowRemoteEnvKey, "")
		if _, err := ListenAddr("http://0.0.0.0:7433"); err == nil {
			t.Fatal("expected error for non-loopback listen host")
		}
	})

	t.Run("allows non-loopback when explicitly enabled", func(t *testing.T) {
		t.Setenv(allowRemoteEnvKey, "true")
		addr, err := ListenAddr("http://0.0.0.0:7433")
		if err != nil {
			t.Fatalf("expected allow-remote to permit host, got error: %v", err)
		}
		if addr != "0.0.0.0:7433" {
			t.Fatalf("unexpected addr: %s", addr)
		}
	})

	t.Run("requires url", func(t *testing.T) {
		if _, err := ListenAddr(""); err == nil {
			t.Fatal("expected error for empty api url")
		}
	})
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	w := doRequest(t, srv.Handler(), http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := decodeResponse[map[string]string](t, w)["status"]; got != "ok" {
		t.Fatalf("expected status ok, got %q", got)
	}
}

func TestInfo(t *testing.T) {
	srv, st := newTestServer(t, nil)
	h := srv.Handler()
	seedTestMember(t, st, "Sarah Chen", time.Now().UTC())
	createTestTask(t, h, api.TaskCreateRequest{Title: "one"})
	done := "done"
	createTestTask(t, h, api.TaskCreateRequest{Title: "two", Status: &done})

	w := doRequest(t, h, http.MethodGet, "/api/info", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	info := decodeResponse[api.InfoResponse](t, w)
	if info.Driver != "sqlite" || info.Version != "test" {
		t.Fatalf("unexpected info: %+v", info)
	}
	if info.TotalTasks != 2 || info.TaskCounts["todo"] != 1 || info.TaskCounts["done"] != 1 {
		t.Fatalf("unexpected counts: %+v", info)
	}
	if info.MemberCount != 1 {
		t.Fatalf("expected 1 member, got %d", info.MemberCount)
	}
	if info.Interpreter != "none" {
		t.Fatalf("expected no interpreter, got %q", info.Interpreter)
	}
	if info.SchemaVersion == 0 {
		t.Fatal("expected schema version")
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	h := srv.withRecovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := doRequest(t, h, http.MethodGet, "/api/tasks", nil)
	expectError(t, w, http.StatusInternalServerError, "internal error", ErrCodeInternal)
	if strings.Contains(w.Body.String(), "boom") {
		t.Fatalf("panic value leaked to client: %s", w.Body.String())
	}
}

func TestStoreFailureMasked(t *testing.T) {
	srv, st := newTestServer(t, nil)
	h := srv.Handler()
	if err := st.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	w := doRequest(t, h, http.MethodGet, "/api/tasks", nil)
	expectError(t, w, http.StatusInternalServerError, "internal error", ErrCodeStoreFailure)
	if strings.Contains(w.Body.String(), "sql") {
		t.Fatalf("store error leaked to client: %s", w.Body.String())
	}
}

func TestRequestBodyTooLarge(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	body := `{"title":"` + strings.Repeat("x", defaultJSONMaxBody) + `"}`

	w := doRequest(t, srv.Handler(), http.MethodPost, "/api/tasks", body)
	expectError(t, w, http.StatusBadRequest, "request body too large", ErrCodeRequestTooLarge)
}

func TestMetricsRoute(t *testing.T) {
	handler, err := metrics.Init(context.Background(), "lnr-test")
	if err != nil {
		t.Fatalf("init metrics: %v", err)
	}
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	srv := New("127.0.0.1:0", st, slog.New(slog.NewTextHandler(io.Discard, nil)), Options{Metrics: handler})
	h := srv.Handler()

	createTestTask(t, h, api.TaskCreateRequest{Title: "counted"})

	w := doRequest(t, h, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"lnr_http_requests_total", "lnr_tasks_created_total"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in metrics output", want)
		}
	}
}

func TestMetricsRouteAbsentWithoutHandler(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	w := doRequest(t, srv.Handler(), http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
