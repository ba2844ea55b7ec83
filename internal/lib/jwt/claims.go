// Package jwt implements issuing and parsing of the signed bearer tokens of
// the API. Two token kinds share one claim structure: short-lived access
// tokens presented on every protected request, and long-lived refresh tokens
// accepted only by the refresh endpoint. The kind is carried in the
// token_type claim and must be checked by the caller.
package jwt

import "github.com/golang-jwt/jwt/v5"

// Token kinds carried in the token_type claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// CustomClaims extends the registered JWT claims with the user identity.
// The user UID travels in the standard Subject claim.
type CustomClaims struct {
	Username             string `json:"username"`
	Role                 string `json:"role"`
	TokenType            string `json:"token_type"`
	jwt.RegisteredClaims        // ExpiresAt, IssuedAt, Subject
}
