package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Parse failures, distinguished so the HTTP layer can answer 401 with the
// right message.
var (
	// ErrTokenExpired means the signature was fine but the token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid means the token is malformed or the signature does not verify.
	ErrTokenInvalid = errors.New("invalid token")
)

// Maker issues and parses the signed tokens of the API.
type Maker interface {
	// GenerateAccessToken issues a short-lived access token for a user.
	GenerateAccessToken(userUID, username, role string) (string, error)
	// GenerateRefreshToken issues a long-lived refresh token for a user.
	GenerateRefreshToken(userUID, username, role string) (string, error)
	// ParseToken verifies a token and returns its claims, or
	// ErrTokenExpired / ErrTokenInvalid.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl implements Maker with an HS256 symmetric secret.
type MakerImpl struct {
	secretKey  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewMaker creates a Maker from the configured secret and TTLs.
func NewMaker(secretKey string, accessTTL, refreshTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey:  secretKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GenerateAccessToken issues an access token valid for the access TTL.
func (j *MakerImpl) GenerateAccessToken(userUID, username, role string) (string, error) {
	return j.generate(userUID, username, role, TokenTypeAccess, j.accessTTL)
}

// GenerateRefreshToken issues a refresh token valid for the refresh TTL.
func (j *MakerImpl) GenerateRefreshToken(userUID, username, role string) (string, error) {
	return j.generate(userUID, username, role, TokenTypeRefresh, j.refreshTTL)
}

func (j *MakerImpl) generate(userUID, username, role, tokenType string, ttl time.Duration) (string, error) {
	claims := CustomClaims{
		Username:  username,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userUID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken verifies the signature and validity of a token and returns its
// claims.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}
		return nil, fmt.Errorf("%s: %w", op, ErrTokenInvalid)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenInvalid)
	}
	return claims, nil
}
