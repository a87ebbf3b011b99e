package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goalpulse/goalpulse/internal/ctxkeys"
	"github.com/goalpulse/goalpulse/internal/httpx"
	"github.com/goalpulse/goalpulse/internal/model"
)

type TokenVerifier interface {
	VerifyJWT(token string) (string, error)
}

type UserFinder interface {
	ByID(ctx context.Context, id string) (*model.User, error)
}

// RequireAuth resolves the bearer token to a user and puts it in the request
// context. Requests without a valid token get a JSON 401.
func RequireAuth(tokens TokenVerifier, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				unauthorized(w, "Access denied. No token provided.")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))

			userID, err := tokens.VerifyJWT(raw)
			if err != nil {
				slog.Debug("jwt verify failed", "error", err)
				unauthorized(w, "Invalid token.")
				return
			}

			user, err := users.ByID(r.Context(), userID)
			if err != nil {
				slog.Debug("token user lookup failed", "error", err, "user_id", userID)
				unauthorized(w, "Invalid token.")
				return
			}

			next.ServeHTTP(w, r.WithContext(ctxkeys.WithUser(r.Context(), user)))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	httpx.WriteError(w, http.StatusUnauthorized, message)
}
