package auth

import (
	"context"
	"net/http"
	"strings"
	"time"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Identity is the authenticated caller extracted from a verified token.
type Identity struct {
	UserID string
	Email  string
}

// IdentityFrom returns the authenticated identity injected by Middleware.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(Identity)
	return identity, ok
}

// Middleware gates a route behind a bearer session token. Tokens without an
// expiration are rejected outright rather than treated as non-expiring.
func Middleware(jwtSecret string, next http.Handler) http.Handler {
	secret := []byte(jwtSecret)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" {
			writeError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeError(w, http.StatusUnauthorized, "invalid authorization format")
			return
		}

		tokenStr := strings.TrimSpace(parts[1])
		if tokenStr == "" {
			writeError(w, http.StatusUnauthorized, "invalid authorization token")
			return
		}

		claims, err := DecodeToken(tokenStr, secret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		if claims.Exp == 0 {
			writeError(w, http.StatusUnauthorized, "missing expiration")
			return
		}
		if claims.Exp <= time.Now().UTC().Unix() {
			writeError(w, http.StatusUnauthorized, "token expired")
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey, Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
