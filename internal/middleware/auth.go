package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"app/internal/util"

	"github.com/rs/zerolog"
)

// Injected key type to avoid context collisions
type contextKey string

const SessionContextKey = contextKey("session")

// Session is the authenticated identity restored from a bearer token.
type Session struct {
	UserID  int64
	Premium bool
}

// SessionFromContext returns the authenticated session, if any.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(SessionContextKey).(Session)
	return s, ok
}

func AuthMiddleware(jwtSecret string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header missing", http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
				return
			}
			claims, err := util.ValidateSession(parts[1], jwtSecret)
			if err != nil {
				logger.Error().Err(err).Msg("Invalid session token")
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}
			userID, err := strconv.ParseInt(claims.Subject, 10, 64)
			if err != nil {
				logger.Error().Err(err).Str("subject", claims.Subject).Msg("Malformed token subject")
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), SessionContextKey, Session{UserID: userID, Premium: claims.Premium})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
