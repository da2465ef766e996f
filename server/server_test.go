package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNotFound_JSONForAPIPaths(t *testing.T) {
	h := New(Config{})
	req := httptest.NewRequest(http.MethodGet, "/v1/nope", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Content-Type"), "json") {
		t.Errorf("Content-Type = %q, want json", rec.Header().Get("Content-Type"))
	}
}

func TestNotFound_HTMLForOtherPaths(t *testing.T) {
	h := New(Config{})
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Content-Type"), "html") {
		t.Errorf("Content-Type = %q, want html", rec.Header().Get("Content-Type"))
	}
}

func TestPasswordHash_MissingPassword(t *testing.T) {
	h := New(Config{})
	req := httptest.NewRequest(http.MethodGet, "/v1/password-hash-generate?method=bcrypt", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] == "" {
		t.Error("expected non-empty error field")
	}
}

func TestPasswordHash_Success(t *testing.T) {
	h := New(Config{})
	req := httptest.NewRequest(http.MethodGet, "/v1/password-hash-generate?method=bcrypt&password=hunter2", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
	var body passwordHashResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Method != "bcrypt" || body.Hash == "" {
		t.Errorf("unexpected response: %+v", body)
	}
}

func TestPasswordHash_UnsupportedMethod(t *testing.T) {
	h := New(Config{})
	req := httptest.NewRequest(http.MethodGet, "/v1/password-hash-generate?method=sha256&password=x", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDNSQuery_MissingName(t *testing.T) {
	h := New(Config{})
	req := httptest.NewRequest(http.MethodGet, "/v1/query/dns", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
