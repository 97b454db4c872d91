package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fastcommand/finance-backend/pkg/enums"
)

// AccessTokenPayload is the identity data minted into an access token.
// Overrides are per-user permission grants layered on top of the role.
type AccessTokenPayload struct {
	UserID    uuid.UUID
	Name      string
	Role      enums.Role
	Overrides []string
	JTI       string
}

// AccessTokenClaims are the typed JWT claims carried by access tokens.
type AccessTokenClaims struct {
	UserID    uuid.UUID  `json:"uid"`
	Name      string     `json:"name"`
	Role      enums.Role `json:"role"`
	Overrides []string   `json:"perms,omitempty"`
	jwt.RegisteredClaims
}
