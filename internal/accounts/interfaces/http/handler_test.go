package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	accountsapp "well-analysis/internal/accounts/application"
	"well-analysis/internal/accounts/infrastructure/memory"
	"well-analysis/internal/auth"
)

var secret = []byte("handler-secret")

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	svc, err := accountsapp.NewService(memory.NewUserRepository(), secret)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	h, err := NewHandler(svc, nil, nil)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	authn := auth.NewAuthenticator(secret, auth.NewDefaultPolicy(auth.PublicPaths, nil), auth.WithIdentityResolver(svc))
	mux := http.NewServeMux()
	mux.Handle("/api/auth/", http.StripPrefix("/api/auth", h.Routes()))
	return authn.Middleware(mux)
}

func call(router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterLoginProfile(t *testing.T) {
	router := newTestRouter(t)

	rec := call(router, http.MethodPost, "/api/auth/register", "", `{"username":"demo","email":"demo@example.com","password":"demo123","role":"engineer"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = call(router, http.MethodPost, "/api/auth/register", "", `{"username":"demo","email":"x@example.com","password":"demo123"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate: expected 400, got %d", rec.Code)
	}

	rec = call(router, http.MethodPost, "/api/auth/login", "", `{"username":"demo","password":"nope"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", rec.Code)
	}

	rec = call(router, http.MethodPost, "/api/auth/login", "", `{"username":"demo@example.com","password":"demo123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", rec.Code)
	}
	var session struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &session); err != nil || session.AccessToken == "" {
		t.Fatalf("login body: %v %s", err, rec.Body.String())
	}

	rec = call(router, http.MethodGet, "/api/auth/profile", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("profile without token: expected 401, got %d", rec.Code)
	}

	rec = call(router, http.MethodGet, "/api/auth/profile", session.AccessToken, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"username":"demo"`) {
		t.Fatalf("profile: %d %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("profile leaks password hash: %s", rec.Body.String())
	}

	rec = call(router, http.MethodPut, "/api/auth/profile", session.AccessToken, `{"email":"demo@field.example.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update profile: expected 200, got %d", rec.Code)
	}

	rec = call(router, http.MethodGet, "/api/auth/users", session.AccessToken, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("users as engineer: expected 403, got %d", rec.Code)
	}
}
