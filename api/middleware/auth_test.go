package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgAuth "github.com/spinwin/prizewheel-backend/pkg/auth"
	"github.com/spinwin/prizewheel-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "prizewheel-test", ExpirationMinutes: 60}
}

func TestAuthRejectsMissingAndMalformedTokens(t *testing.T) {
	mw := Auth(testJWTConfig(), nil)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	cases := map[string]string{
		"missing":       "",
		"bare bearer":   "Bearer ",
		"garbage token": "Bearer not-a-jwt",
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/agents", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp := httptest.NewRecorder()
		mw(handler).ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 got %d", name, resp.Code)
		}
	}
}

func TestAuthAcceptsValidTokenAndSeedsContext(t *testing.T) {
	cfg := testJWTConfig()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		Email: "ops@example.com",
		Role:  pkgAuth.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	var gotEmail, gotRole string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEmail = AdminEmailFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/agents", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	Auth(cfg, nil)(handler).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotEmail != "ops@example.com" || gotRole != pkgAuth.RoleAdmin {
		t.Fatalf("context not seeded: email=%q role=%q", gotEmail, gotRole)
	}
}

func TestRequireRoleForbidsOtherRoles(t *testing.T) {
	mw := RequireRole(pkgAuth.RoleAdmin, nil)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/agents", nil)
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/v1/agents", nil)
	req = req.WithContext(WithAdminIdentity(req.Context(), "ops@example.com", pkgAuth.RoleAdmin))
	resp = httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
