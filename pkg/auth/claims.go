package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenClaims is the JWT payload carried by bearer tokens. The user ID
// travels in the registered "sub" claim so the token stays compatible with
// generic JWT tooling.
type AccessTokenClaims struct {
	jwt.RegisteredClaims
}

// UserID parses the subject claim into a user identifier.
func (c *AccessTokenClaims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}
