// Package security implements Argon2id password hashing in the standard
// $argon2id$v=19$m=..,t=..,p=..$salt$hash encoded form, so hashes minted by
// other tooling (or pasted into env config) verify here unchanged.
package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/spinwin/prizewheel-backend/pkg/config"
)

// ErrInvalidHash signals a malformed Argon2id hash string.
var ErrInvalidHash = fmt.Errorf("invalid argon2id hash")

// ArgonParams are the cost parameters embedded in each hash string.
type ArgonParams struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLen     uint32
	KeyLen      uint32
}

// HashPassword derives an Argon2id hash using the configured cost
// parameters and returns it in encoded form.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	params := paramsFromConfig(cfg)
	salt := make([]byte, params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, params.Time, params.Memory, params.Parallelism, params.KeyLen)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		params.Memory, params.Time, params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword reports whether the password matches the encoded hash,
// comparing in constant time.
func VerifyPassword(password, encoded string) (bool, error) {
	params, salt, want, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}
	got := argon2.IDKey([]byte(password), salt, params.Time, params.Memory, params.Parallelism, params.KeyLen)
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

func paramsFromConfig(cfg config.PasswordConfig) ArgonParams {
	return ArgonParams{
		Memory:      clamp(cfg.ArgonMemoryKB, 8, 512*1024),
		Time:        clamp(cfg.ArgonTime, 1, 10),
		Parallelism: uint8(clamp(cfg.ArgonParallelism, 1, 255)),
		SaltLen:     clamp(cfg.ArgonSaltLen, 8, 64),
		KeyLen:      clamp(cfg.ArgonKeyLen, 16, 64),
	}
}

func decodeHash(encoded string) (ArgonParams, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" || parts[2] != "v=19" {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}

	var params ArgonParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d",
		&params.Memory, &params.Time, &params.Parallelism); err != nil {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}

	params.SaltLen = uint32(len(salt))
	params.KeyLen = uint32(len(key))
	return params, salt, key, nil
}

func clamp(value, min, max int) uint32 {
	if value < min {
		value = min
	}
	if value > max {
		value = max
	}
	return uint32(value)
}
