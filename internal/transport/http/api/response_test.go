package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFailWithDetailsEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	FailWithDetails(rec, http.StatusBadRequest, "validation_error", "bad", map[string]any{"fields": []string{"score"}}, "req-1")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var env struct {
		Success   bool   `json:"success"`
		RequestID string `json:"requestId"`
		Error     struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Success || env.RequestID != "req-1" || env.Error.Code != "validation_error" || env.Error.Details["fields"] == nil {
		t.Fatalf("unexpected envelope: %s", rec.Body.String())
	}
}

func TestSuccessOmitsError(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]int{"n": 1}, "")
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := raw["error"]; ok {
		t.Fatalf("error key must be omitted: %s", rec.Body.String())
	}
	if _, ok := raw["requestId"]; ok {
		t.Fatalf("empty request id must be omitted: %s", rec.Body.String())
	}
}
