package authapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"roster/cmd/internal/auth/token"
	"roster/cmd/internal/httpx"
)

type claimsContextKey struct{}

// ClaimsFromContext returns the access token claims attached by RequireAuth.
func ClaimsFromContext(ctx context.Context) (token.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(token.Claims)
	return claims, ok
}

// RequireAuth guards next behind a valid bearer access token. Requests without
// an Authorization header are rejected with 401; requests carrying a token
// that fails verification (bad signature, wrong issuer, expired) get 403.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		claims, err := h.tokens.VerifyAccess(raw, time.Now().UTC())
		if err != nil {
			httpx.WriteError(w, http.StatusForbidden, "forbidden", "invalid or expired token")
			return
		}
		ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	parts := strings.SplitN(raw, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
