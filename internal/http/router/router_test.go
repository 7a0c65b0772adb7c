package router

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/aanand-mishra/wellbeing-api/internal/config"
	"github.com/aanand-mishra/wellbeing-api/internal/storage/sqlite"
	"github.com/aanand-mishra/wellbeing-api/internal/types"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		DatabaseURL:    "sqlite:///" + filepath.Join(t.TempDir(), "students.db"),
		FrontendOrigin: "https://dash.example.com",
	}
	store, err := sqlite.New(cfg)
	if err != nil {
		t.Fatalf("sqlite.New: %v", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(New(cfg, store, log))
	t.Cleanup(func() {
		srv.Close()
		store.Close()
	})
	return srv
}

func send(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestAdaScenario(t *testing.T) {
	srv := newTestServer(t)

	resp := send(t, http.MethodPost, srv.URL+"/students", `{"name":"Ada","email":"ada@example.com"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status %d", resp.StatusCode)
	}
	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatal(err)
	}
	if raw["id"] == nil || raw["timestamp"] == nil || raw["cohort"] != nil || raw["wellbeing_score"] != nil {
		t.Fatalf("unexpected read shape: %v", raw)
	}
	id := int64(raw["id"].(float64))

	resp = send(t, http.MethodPost, srv.URL+"/students", `{"name":"Ada again","email":"ada@example.com"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate create: status %d, want 400", resp.StatusCode)
	}

	resp = send(t, http.MethodGet, srv.URL+"/students", "")
	var list []types.Student
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("list has %d students, want 1", len(list))
	}

	url := srv.URL + "/students/" + strconv.FormatInt(id, 10)
	if resp := send(t, http.MethodDelete, url, ""); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: status %d", resp.StatusCode)
	}
	if resp := send(t, http.MethodGet, url, ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete: status %d, want 404", resp.StatusCode)
	}
}

func TestHealthAndRoot(t *testing.T) {
	srv := newTestServer(t)

	resp := send(t, http.MethodGet, srv.URL+"/health", "")
	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if resp.StatusCode != http.StatusOK || body["status"] != "healthy" {
		t.Errorf("/health = %d %v", resp.StatusCode, body)
	}

	resp = send(t, http.MethodGet, srv.URL+"/", "")
	body = nil
	json.NewDecoder(resp.Body).Decode(&body)
	if resp.StatusCode != http.StatusOK || body["status"] != "running" {
		t.Errorf("/ = %d %v", resp.StatusCode, body)
	}

	if resp := send(t, http.MethodGet, srv.URL+"/nope", ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("/nope = %d, want 404", resp.StatusCode)
	}
}

func TestMiddlewareChain(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/students", nil)
	req.Header.Set("Origin", "https://dash.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://dash.example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
}
