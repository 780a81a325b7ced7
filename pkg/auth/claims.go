package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the only role issued today. The wheel's public surface is
// unauthenticated; JWTs gate the dashboard.
const RoleAdmin = "admin"

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	Email string
	Role  string
	JTI   string
}

// AccessTokenClaims represents the typed JWT issued to dashboard clients.
type AccessTokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}
