package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRoot(t *testing.T) {
	rec := httptest.NewRecorder()
	Root()(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK || body["version"] != Version || body["status"] != "running" {
		t.Errorf("got %d %v", rec.Code, body)
	}
}

func TestCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	Check()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "{\"status\":\"healthy\"}\n" {
		t.Errorf("got %d %q", rec.Code, rec.Body.String())
	}
}
