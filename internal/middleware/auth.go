package middleware

import (
	"context"
	"net/http"

	"github.com/0xteamMuffin/Hireability/internal/utils"
)

const userIDKey contextKey = "user_id"

// Authenticator wraps JWT verification plus the logout blacklist.
type Authenticator struct {
	Secret    string
	Blacklist *utils.TokenBlacklist
}

// RequireAuth rejects requests without a valid, non-revoked bearer token
// and stashes the user id in the request context.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := utils.VerifyToken(r, a.Secret)
		if err != nil {
			utils.Fail(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}
		if a.Blacklist != nil {
			if token, err := utils.BearerToken(r); err == nil && a.Blacklist.IsRevoked(r.Context(), token) {
				utils.Fail(w, http.StatusUnauthorized, "token revoked")
				return
			}
		}
		userID, err := utils.GetUserIDFromClaims(claims)
		if err != nil {
			utils.Fail(w, http.StatusUnauthorized, "invalid token claims")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the authenticated user id, or 0 when the route skipped
// authentication.
func UserID(r *http.Request) uint {
	id, _ := r.Context().Value(userIDKey).(uint)
	return id
}

// AsUser stamps a request with an already-authenticated user id. Handler
// tests use it to skip the token dance.
func AsUser(r *http.Request, id uint) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userIDKey, id))
}
