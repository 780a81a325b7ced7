package security

import (
	"strings"
	"testing"

	"github.com/spinwin/prizewheel-backend/pkg/config"
)

func testPasswordConfig() config.PasswordConfig {
	// small params keep the test fast
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("wheel-admin-pass", testPasswordConfig())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	ok, err := VerifyPassword("wheel-admin-pass", hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("correct password rejected")
	}

	ok, err = VerifyPassword("wrong-pass", hash)
	if err != nil {
		t.Fatalf("verify wrong: %v", err)
	}
	if ok {
		t.Fatal("wrong password accepted")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := HashPassword("", testPasswordConfig()); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	cases := []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=8,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8,t=1$c2FsdA$aGFzaA$extra",
		"$argon2id$v=19$m=nope,t=1,p=1$c2FsdA$aGFzaA",
	}
	for _, encoded := range cases {
		if _, err := VerifyPassword("x", encoded); err == nil {
			t.Errorf("expected ErrInvalidHash for %q", encoded)
		}
	}
}
