package middleware

import (
	"net/http"
	"strings"

	"coscribe/internal/auth"
	"coscribe/internal/httputil"
)

// AuthMiddleware resolves the bearer token to a user and stores the identity
// in the request context. The health endpoint is the only unauthenticated
// route. Websocket upgrades may carry the token as a query parameter since
// browsers cannot set headers on a websocket handshake.
func AuthMiddleware(verifier auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			if token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid bearer token")
				return
			}

			next.ServeHTTP(w, httputil.WithUser(r, claims.UserID(), claims.Name))
		})
	}
}

// bearerToken pulls the credential from the Authorization header, falling
// back to the token query parameter for websocket handshakes.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("token")
}
