package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"pet-manager-api/internal/auth"
	"pet-manager-api/internal/httpjson"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// ClaimsFrom returns the verified token claims stored by Authenticate.
func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok
}

func WithClaims(ctx context.Context, c *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// Authenticate requires a bearer token. No token is 401; a token that
// fails verification for any reason is 403.
func Authenticate(iss *auth.Issuer, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearer(r.Header.Get("Authorization"))
			if raw == "" {
				log.Debug("no bearer token", zap.String("path", r.URL.Path))
				httpjson.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			claims, err := iss.Parse(raw)
			if err != nil {
				log.Info("rejected bearer token",
					zap.String("path", r.URL.Path),
					zap.String("request_id", RequestIDFrom(r.Context())))
				httpjson.Error(w, http.StatusForbidden, "Forbidden")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// token from Authorization: Bearer <jwt>
func bearer(h string) string {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(tok)
}
