package middleware

import (
	"net/http"
	"strings"
	"time"

	"skypulse/flightcore/internal/auth"
	"skypulse/flightcore/internal/common"
	"skypulse/flightcore/internal/logging"
)

// AuthMiddleware requires a valid bearer token when signer is non-nil.
// A nil signer leaves the API open.
func AuthMiddleware(signer *auth.TokenSigner) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if signer == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			initTime := time.Now()

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				common.RespondError(w, initTime, nil, "Unauthorized. Missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := signer.Validate(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				logging.Warn("Rejected bearer token", "error", err, "request_id", RequestIDFromContext(r.Context()))
				common.RespondError(w, initTime, nil, "Unauthorized. Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := auth.SetClientClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireWrite rejects mutating requests from read-scoped clients. Requests
// without claims pass, since they only reach here when auth is disabled.
func RequireWrite(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetClientClaims(r.Context())
		if claims != nil && !claims.CanWrite() {
			common.RespondError(w, time.Now(), nil, "Forbidden. Token is read-only", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
