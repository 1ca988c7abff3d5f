package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type stubResolver map[string]Role

func (s stubResolver) ResolveIdentity(_ context.Context, userID string) (string, Role, error) {
	role, ok := s[userID]
	if !ok {
		return "", "", ErrUnauthorized
	}
	return "stored-" + userID, role, nil
}

func serve(t *testing.T, authn *Authenticator, method, path, token string) (*httptest.ResponseRecorder, string, Role) {
	t.Helper()
	var gotUser string
	var gotRole Role
	handler := authn.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UsernameFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp, gotUser, gotRole
}

func errorBody(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected json error body, got content type %q", ct)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, resp.Body.String())
	}
	return body.Error
}

func TestAuthenticator_MissingToken(t *testing.T) {
	secret := []byte("test-secret")
	authn := NewAuthenticator(secret, NewDefaultPolicy(PublicPaths, nil))

	resp, _, _ := serve(t, authn, http.MethodGet, "/api/wells", "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if msg := errorBody(t, resp); msg != "missing bearer token" {
		t.Fatalf("unexpected error %q", msg)
	}
}

func TestAuthenticator_PublicPaths(t *testing.T) {
	authn := NewAuthenticator([]byte("test-secret"), NewDefaultPolicy(PublicPaths, nil))
	for _, path := range []string{"/api/auth/login", "/api/auth/register", "/api/health", "/metrics"} {
		resp, _, _ := serve(t, authn, http.MethodPost, path, "")
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.Code)
		}
	}
}

func TestAuthenticator_StudentForbiddenUserList(t *testing.T) {
	secret := []byte("test-secret")
	token := mustToken(t, secret, "user-1", "student", time.Hour)
	authn := NewAuthenticator(secret, NewDefaultPolicy(PublicPaths, nil))

	resp, _, _ := serve(t, authn, http.MethodGet, "/api/auth/users", token)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
	if msg := errorBody(t, resp); msg != "requires admin role" {
		t.Fatalf("unexpected error %q", msg)
	}
}

func TestAuthenticator_ClaimsIdentityWithoutResolver(t *testing.T) {
	secret := []byte("test-secret")
	token := mustToken(t, secret, "user-7", "engineer", time.Hour)
	authn := NewAuthenticator(secret, NewDefaultPolicy(PublicPaths, nil))

	resp, user, role := serve(t, authn, http.MethodGet, "/api/wells", token)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if user != "tester" || role != RoleEngineer {
		t.Fatalf("unexpected identity %q %q", user, role)
	}
}

func TestAuthenticator_ResolverOverridesClaims(t *testing.T) {
	secret := []byte("test-secret")
	authn := NewAuthenticator(secret, NewDefaultPolicy(PublicPaths, nil),
		WithIdentityResolver(stubResolver{"user-1": RoleAdmin, "user-2": RoleStudent}))

	// Promoted after the token was issued.
	resp, user, role := serve(t, authn, http.MethodGet, "/api/auth/users", mustToken(t, secret, "user-1", "student", time.Hour))
	if resp.Code != http.StatusOK || user != "stored-user-1" || role != RoleAdmin {
		t.Fatalf("promoted user: %d %q %q", resp.Code, user, role)
	}

	// Demoted after the token was issued.
	resp, _, _ = serve(t, authn, http.MethodGet, "/api/auth/users", mustToken(t, secret, "user-2", "admin", time.Hour))
	if resp.Code != http.StatusForbidden {
		t.Fatalf("demoted user: expected 403, got %d", resp.Code)
	}

	resp, _, _ = serve(t, authn, http.MethodGet, "/api/wells", mustToken(t, secret, "user-gone", "admin", time.Hour))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("deleted account: expected 401, got %d", resp.Code)
	}
	if msg := errorBody(t, resp); msg != "account no longer exists" {
		t.Fatalf("unexpected error %q", msg)
	}
}

func TestAuthenticator_ExpiredToken(t *testing.T) {
	secret := []byte("test-secret")
	token := mustToken(t, secret, "user-1", "admin", -time.Minute)
	authn := NewAuthenticator(secret, NewDefaultPolicy(PublicPaths, nil))

	resp, _, _ := serve(t, authn, http.MethodGet, "/api/wells", token)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if msg := errorBody(t, resp); msg != "invalid or expired token" {
		t.Fatalf("unexpected error %q", msg)
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":   "abc",
		"bearer  abc ": "abc",
		"Basic abc":    "",
		"Bearer":       "",
		"Bearer ":      "",
		"":             "",
	}
	for header, want := range cases {
		got, ok := bearerToken(header)
		if got != want || ok != (want != "") {
			t.Fatalf("bearerToken(%q) = %q %v, want %q", header, got, ok, want)
		}
	}
}

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"admin":      RoleAdmin,
		" Engineer ": RoleEngineer,
		"ingenieur":  RoleEngineer,
		"ETUDIANT":   RoleStudent,
		"superuser":  "",
	}
	for value, want := range cases {
		got, ok := ParseRole(value)
		if ok != (want != "") || (ok && got != want) {
			t.Fatalf("ParseRole(%q) = %q %v, want %q", value, got, ok, want)
		}
	}
	if !RoleAdmin.AtLeast(RoleEngineer) || RoleStudent.AtLeast(RoleEngineer) {
		t.Fatalf("unexpected role ordering")
	}
	if Role("guest").AtLeast(Role("other")) {
		t.Fatalf("unknown roles must grant nothing")
	}
}

func TestIssueJWTRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	token, expiresAt, err := IssueJWT(secret, "user-3", "demo", RoleEngineer, 24*time.Hour, time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(expiresAt) < 23*time.Hour {
		t.Fatalf("unexpected expiry %v", expiresAt)
	}
	claims, err := ParseJWT(token, secret)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "user-3" || claims.Username != "demo" || claims.Role != "engineer" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if _, err := ParseJWT(token, []byte("other-secret")); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestPasswordHashing(t *testing.T) {
	if _, err := HashPassword("abc"); err != ErrWeakPassword {
		t.Fatalf("expected weak password error, got %v", err)
	}
	hash, err := HashPassword("demo123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "demo123") {
		t.Fatalf("expected match")
	}
	if CheckPassword(hash, "demo124") {
		t.Fatalf("expected mismatch")
	}
}

func mustToken(t *testing.T, secret []byte, userID, role string, ttl time.Duration) string {
	t.Helper()
	claims := Claims{
		Username: "tester",
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
