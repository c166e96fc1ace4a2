package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/grambazaar/storefront-backend/pkg/enums"
)

// Audience is stamped on every storefront token and required when verifying.
const Audience = "grambazaar-storefront"

// Identity is who a token speaks for.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   enums.UserRole
}

// Claims is the JWT body. The user id travels as "id" so existing clients
// can keep reading it without parsing "sub".
type Claims struct {
	UserID uuid.UUID      `json:"id"`
	Email  string         `json:"email"`
	Role   enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Identity returns the caller the claims describe.
func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Email: c.Email, Role: c.Role}
}
