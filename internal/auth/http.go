// ABOUTME: HTTP middleware for bearer-token authentication on API endpoints
// ABOUTME: Extracts the token from the Authorization header and adds Principal to context

package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/2389/blog-server/internal/apperror"
)

// bearerPrefix is the exact, case-sensitive credential scheme: "Bearer",
// one space, then the token.
const bearerPrefix = "Bearer "

// ExtractBearerToken extracts a bearer token from an Authorization header
// value. The scheme must match exactly; a missing header, a different
// scheme, or an empty token all fail with an authentication-class error.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", apperror.New(apperror.KindUnauthenticated, "missing authorization header")
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", apperror.New(apperror.KindUnauthenticated, "invalid authorization header format")
	}
	token := strings.TrimPrefix(header, bearerPrefix)
	if token == "" {
		return "", apperror.New(apperror.KindUnauthenticated, "empty token")
	}
	return token, nil
}

// HTTPAuthMiddleware creates an HTTP middleware that authenticates every
// request through the given Authenticator and attaches the resolved
// Principal to the request context using the same WithPrincipal/FromContext
// pattern as the gRPC interceptors.
//
// The middleware holds no per-request state; concurrent requests each get
// their own context and never share a Principal.
func HTTPAuthMiddleware(authn Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := ExtractBearerToken(r.Header.Get("Authorization"))
			if err != nil {
				writeAuthError(w, err)
				return
			}

			principal, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				if logger != nil {
					logger.Warn("auth failure",
						"transport", "http",
						"remote_addr", r.RemoteAddr,
						"error", err.Error(),
					)
				}
				writeAuthError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// writeAuthError writes the rejection as the transport's native failure
// shape: 401 with a JSON error body for authentication failures, the mapped
// status with a generic message otherwise.
func writeAuthError(w http.ResponseWriter, err error) {
	status := http.StatusUnauthorized
	if !apperror.IsAuthFailure(err) {
		status = apperror.HTTPStatus(err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": apperror.Public(err)})
}
