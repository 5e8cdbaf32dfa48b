package auth

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

type accountIDKey struct{}

// NewAuthMiddleware returns a middleware that resolves the caller's account
// from a Bearer token's account_id claim. When no token is supplied and
// auth.allow_account_fallback is enabled, the configured default account is
// used instead; this reproduces the legacy single-tenant behavior and is
// logged every time it kicks in.
func NewAuthMiddleware() func(next http.Handler) http.Handler {
	secret := []byte(os.Getenv("JWT_SECRET"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				if !viper.GetBool("auth.allow_account_fallback") {
					http.Error(w, "missing token", http.StatusUnauthorized)

					return
				}

				accountID := viper.GetInt64("auth.default_account_id")
				slog.Warn("Request without token, using fallback account", "account_id", accountID)
				next.ServeHTTP(w, r.WithContext(WithAccountID(r.Context(), accountID)))

				return
			}

			parts := strings.Split(raw, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "invalid token", http.StatusUnauthorized)

				return
			}

			token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				http.Error(w, "unauthorized", http.StatusUnauthorized)

				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)

				return
			}

			accountID, ok := claims["account_id"].(float64)
			if !ok || accountID <= 0 {
				http.Error(w, "unauthorized", http.StatusUnauthorized)

				return
			}

			next.ServeHTTP(w, r.WithContext(WithAccountID(r.Context(), int64(accountID))))
		})
	}
}

// WithAccountID returns a context carrying the authenticated account id.
func WithAccountID(ctx context.Context, accountID int64) context.Context {
	return context.WithValue(ctx, accountIDKey{}, accountID)
}

// AccountID extracts the authenticated account id from the context.
func AccountID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(accountIDKey{}).(int64)

	return id, ok
}
