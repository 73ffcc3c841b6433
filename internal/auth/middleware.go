package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/viewtube/backend/internal/httpapi"
	"github.com/viewtube/backend/internal/models"
	"github.com/viewtube/backend/internal/repositories"
)

// AccessTokenCookie and RefreshTokenCookie name the session cookies set on
// login and cleared on logout.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// UserFinder loads user records while authenticating requests.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (models.User, error)
}

// Authenticator resolves the bearer credential on a request to a user.
type Authenticator struct {
	Tokens *TokenManager
	Users  UserFinder
}

// Require rejects the request with 401 unless a valid access token resolves
// to an existing user; on success the sanitized user is threaded through the
// request context.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return httpapi.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		token := BearerToken(r)
		if token == "" {
			return httpapi.Unauthorized("unauthorized access")
		}

		userID, err := a.Tokens.VerifyAccess(token)
		if err != nil {
			return httpapi.Unauthorized("invalid access token")
		}

		user, err := a.Users.FindByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return httpapi.Unauthorized("invalid access token")
			}
			return fmt.Errorf("load authenticated user: %w", err)
		}

		user.Password = ""
		user.RefreshToken = ""

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		return nil
	})
}

// Optional attaches the user when a valid access token is present but lets
// anonymous requests through untouched.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := a.Tokens.VerifyAccess(token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		user, err := a.Users.FindByID(r.Context(), userID)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		user.Password = ""
		user.RefreshToken = ""
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// BearerToken extracts the access token from the session cookie or an
// Authorization: Bearer header, in that order.
func BearerToken(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}
