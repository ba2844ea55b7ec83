// Package services contains the business logic for accounts and
// authentication: registration, login, token refresh and revocation, and
// profile management.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hirwa-dev/subscription-manager/internal/lib/jwt"
	"github.com/hirwa-dev/subscription-manager/internal/lib/password"
	"github.com/hirwa-dev/subscription-manager/internal/lib/sl"
	"github.com/hirwa-dev/subscription-manager/internal/models"
	"github.com/hirwa-dev/subscription-manager/internal/storage/repository"
)

var (
	// ErrInvalidCredentials covers unknown usernames and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenRevoked means the token verified but is no longer the latest
	// issued one for its user (logout or re-login happened since).
	ErrTokenRevoked = errors.New("token revoked")
)

// UserRepository is the storage contract for user accounts.
type UserRepository interface {
	RegisterUser(ctx context.Context, user models.User) (string, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	UpdateUser(ctx context.Context, userUID string, patch models.UserPatch) (int, error)
	SoftDeleteUser(ctx context.Context, userUID string) (int, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, int, error)
}

// TokenStore is the side-channel holding the latest access token per user.
type TokenStore interface {
	SetToken(ctx context.Context, userUID, token string, ttl time.Duration) error
	GetToken(ctx context.Context, userUID string) (string, bool, error)
	InvalidateToken(ctx context.Context, userUID string) error
}

// LoginResult carries the issued token pair and the public user fields.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// AuthService implements registration, authentication and token lifecycle.
type AuthService struct {
	users     UserRepository
	tokens    TokenStore
	jwtMaker  jwt.Maker
	accessTTL time.Duration
	log       *slog.Logger
}

// NewAuthService creates a new AuthService. accessTTL is reused as the TTL
// of the side-channel token record.
func NewAuthService(users UserRepository, tokens TokenStore, jwtMaker jwt.Maker, accessTTL time.Duration, log *slog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		jwtMaker:  jwtMaker,
		accessTTL: accessTTL,
		log:       log,
	}
}

// Register creates a new user with a hashed password and returns its UID.
// The duplicate pre-checks are a fast path; the unique indexes in storage
// return the same errors when a concurrent insert wins.
func (s *AuthService) Register(ctx context.Context, req models.DummyRegister) (string, error) {
	taken, err := s.users.UsernameTaken(ctx, req.Username)
	if err != nil {
		return "", err
	}
	if taken {
		return "", repository.ErrDuplicateUsername
	}
	taken, err = s.users.EmailTaken(ctx, req.Email)
	if err != nil {
		return "", err
	}
	if taken {
		return "", repository.ErrDuplicateEmail
	}

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}
	role := req.Role
	if role == "" {
		role = "user"
	}
	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         role,
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return "", err
	}
	s.log.Info("registered new user", slog.String("uid", uid), slog.String("role", role))
	return uid, nil
}

// Login verifies the credentials of an active user and issues a token pair.
// The new access token replaces the side-channel record, revoking any older
// one still in flight.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (*LoginResult, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	access, err := s.jwtMaker.GenerateAccessToken(user.UID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtMaker.GenerateRefreshToken(user.UID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.SetToken(ctx, user.UID, access, s.accessTTL); err != nil {
		return nil, fmt.Errorf("store access token: %w", err)
	}

	s.log.Info("user logged in", slog.String("uid", user.UID))
	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The user
// is re-loaded so a role change or soft delete takes effect immediately.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtMaker.ParseToken(refreshToken)
	if err != nil {
		return "", err
	}
	if claims.TokenType != jwt.TokenTypeRefresh {
		return "", jwt.ErrTokenInvalid
	}
	user, err := s.users.GetUser(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", jwt.ErrTokenInvalid
		}
		return "", err
	}

	access, err := s.jwtMaker.GenerateAccessToken(user.UID, user.Username, user.Role)
	if err != nil {
		return "", err
	}
	if err := s.tokens.SetToken(ctx, user.UID, access, s.accessTTL); err != nil {
		return "", fmt.Errorf("store access token: %w", err)
	}
	return access, nil
}

// Logout removes the side-channel record, after which the revocation check
// rejects the still-unexpired access token.
func (s *AuthService) Logout(ctx context.Context, userUID string) error {
	return s.tokens.InvalidateToken(ctx, userUID)
}

// ValidateAccessToken verifies an access token: signature and expiry first,
// then the token kind, then the side-channel match. Only the latest issued
// access token of a user is accepted.
func (s *AuthService) ValidateAccessToken(ctx context.Context, token string) (*jwt.CustomClaims, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != jwt.TokenTypeAccess {
		return nil, jwt.ErrTokenInvalid
	}
	stored, found, err := s.tokens.GetToken(ctx, claims.Subject)
	if err != nil {
		// The side-channel being down must not lock every user out; fall
		// back to pure signature validity.
		s.log.Warn("token store unavailable, skipping revocation check", sl.Err(err))
		return claims, nil
	}
	if !found || stored != token {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Profile returns the account of an active user.
func (s *AuthService) Profile(ctx context.Context, userUID string) (*models.User, error) {
	return s.users.GetUser(ctx, userUID)
}

// GetUser is Profile under the name the admin middleware expects.
func (s *AuthService) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	return s.users.GetUser(ctx, userUID)
}

// UpdateProfile applies a self-service profile update. Role and UID cannot
// travel in the request type, so escalation is impossible on this path. A
// new password is rehashed before storage.
func (s *AuthService) UpdateProfile(ctx context.Context, userUID string, req models.DummyProfileUpdate) (int, error) {
	patch := models.UserPatch{Email: req.Email}
	if req.Password != nil {
		hashed, err := password.GetHash(*req.Password)
		if err != nil {
			return 0, err
		}
		patch.PasswordHash = &hashed
	}
	return s.users.UpdateUser(ctx, userUID, patch)
}

// DeleteUser soft-deletes an account and revokes its tokens.
func (s *AuthService) DeleteUser(ctx context.Context, userUID string) (int, error) {
	count, err := s.users.SoftDeleteUser(ctx, userUID)
	if err != nil {
		return 0, err
	}
	if err := s.tokens.InvalidateToken(ctx, userUID); err != nil {
		s.log.Warn("failed to invalidate token of deleted user", sl.Err(err))
	}
	return count, nil
}

// ListUsers returns a page of active users.
func (s *AuthService) ListUsers(ctx context.Context, page, perPage int) (*models.UserPage, error) {
	page, perPage = models.ClampPage(page, perPage)
	users, total, err := s.users.ListUsers(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	return &models.UserPage{
		Users:      users,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: models.TotalPages(total, perPage),
	}, nil
}
