package auth

import "github.com/golang-jwt/jwt/v5"

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims are the only supported JWT claims shape for this service.
// Permissions maps a project id to the dashboard tabs the user may open in it.
// Access checks against them live in internal/rbac.
type Claims struct {
	jwt.RegisteredClaims

	UserID      string              `json:"user_id"`
	Role        string              `json:"role"`
	Permissions map[string][]string `json:"permissions,omitempty"`
	TokenType   TokenType           `json:"token_type"`
}
