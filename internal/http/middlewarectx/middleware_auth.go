// Package middlewarectx contains the HTTP middleware of the server: JWT
// verification, admin role enforcement and rate limiting.
//
// JWTMiddleware checks the Authorization header for a bearer token,
// validates it through the auth service and, on success, places the
// username, role and user UID into the request context for the handlers.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/hirwa-dev/subscription-manager/internal/http/response"
	"github.com/hirwa-dev/subscription-manager/internal/lib/jwt"
	"github.com/hirwa-dev/subscription-manager/internal/lib/sl"
	services "github.com/hirwa-dev/subscription-manager/internal/services/auth"
)

// Key is the type of the request context keys set by this package.
type Key string

const (
	// User holds the username of the authenticated user.
	User Key = "username"
	// Role holds the role of the authenticated user.
	Role Key = "role"
	// UserUID holds the UID of the authenticated user.
	UserUID Key = "user_uid"
)

// TokenValidator is the auth service surface the middleware needs.
type TokenValidator interface {
	ValidateAccessToken(ctx context.Context, token string) (*jwt.CustomClaims, error)
}

// JWTMiddleware returns middleware that rejects requests without a valid
// access token. Expired and revoked tokens get distinct messages so clients
// know whether to refresh or to log in again.
func JWTMiddleware(authService TokenValidator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := authService.ValidateAccessToken(r.Context(), tokenStr)
			if err != nil {
				log.Error("token validation failed", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				switch {
				case errors.Is(err, jwt.ErrTokenExpired):
					render.JSON(w, r, response.Error("token expired"))
				case errors.Is(err, services.ErrTokenRevoked):
					render.JSON(w, r, response.Error("token revoked"))
				default:
					render.JSON(w, r, response.Error("invalid token"))
				}
				return
			}

			ctx := context.WithValue(r.Context(), User, claims.Username)
			ctx = context.WithValue(ctx, Role, claims.Role)
			ctx = context.WithValue(ctx, UserUID, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
