package authhandler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"kpiboard/internal/domain/auth"
	"kpiboard/internal/transport/http/middleware"
)

type stubLogin struct {
	err error
}

func (s stubLogin) Login(_ context.Context, email, _ string) (auth.LoginResult, error) {
	if s.err != nil {
		return auth.LoginResult{}, s.err
	}
	return auth.LoginResult{Token: "tok", User: auth.UserInfo{ID: "u-1", Role: auth.RoleEmployee, Name: email}}, nil
}

func serve(h *Handler, req *http.Request) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	h.RegisterRoutes(router)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleLogin(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantBody string
	}{
		{"ok", `{"email":"a@b.c","password":"pw"}`, nil, http.StatusOK, `"token":"tok"`},
		{"malformed", `{`, nil, http.StatusBadRequest, "invalid_payload"},
		{"missing fields", `{"email":""}`, nil, http.StatusBadRequest, "validation_error"},
		{"bad credentials", `{"email":"a@b.c","password":"x"}`, auth.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"store down", `{"email":"a@b.c","password":"x"}`, errors.New("db"), http.StatusInternalServerError, "login_failed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tc.body))
			rec := serve(NewHandler(stubLogin{err: tc.err}), req)
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %s", tc.wantCode, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tc.wantBody) {
				t.Fatalf("expected %q in %s", tc.wantBody, rec.Body.String())
			}
		})
	}
}

func TestHandleMe(t *testing.T) {
	h := NewHandler(stubLogin{})

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: "u-9", RoleName: auth.RoleManager}))
	rec = serve(h, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), auth.PermEvaluationExport) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}
