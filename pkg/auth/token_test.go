package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/spinwin/prizewheel-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "prizewheel-test",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{
		Email: "ops@wheel.test",
		Role:  RoleAdmin,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Email != "ops@wheel.test" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
	if claims.Role != RoleAdmin {
		t.Fatalf("unexpected role %q", claims.Role)
	}
	if claims.ID == "" {
		t.Fatal("expected a generated jti")
	}
}

func TestMintRejectsBadPayload(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now()

	if _, err := MintAccessToken(cfg, now, AccessTokenPayload{Role: RoleAdmin}); err == nil {
		t.Fatal("expected error for missing email")
	}
	if _, err := MintAccessToken(cfg, now, AccessTokenPayload{Email: "a@b.c", Role: "player"}); err == nil {
		t.Fatal("expected error for invalid role")
	}

	bad := cfg
	bad.Secret = ""
	if _, err := MintAccessToken(bad, now, AccessTokenPayload{Email: "a@b.c", Role: RoleAdmin}); err == nil {
		t.Fatal("expected error for missing secret")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	past := time.Now().Add(-2 * time.Hour)

	token, err := MintAccessToken(cfg, past, AccessTokenPayload{
		Email: "ops@wheel.test",
		Role:  RoleAdmin,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expired-token error")
	} else if !strings.Contains(err.Error(), "expired") {
		t.Fatalf("expected expiry error, got %v", err)
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		Email: "ops@wheel.test",
		Role:  RoleAdmin,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := cfg
	other.Issuer = "someone-else"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected issuer mismatch error")
	}
}
