package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"go.uber.org/zap"

	logpkg "github.com/OmarAli141/resumes-comparison/internal/logger"
)

// Probes stay open so orchestrators and scrapers need no credentials.
var publicPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// BearerAuthMiddleware accepts requests carrying one of apiKeys as a Bearer
// token. Empty keys are ignored; with none left the middleware is a no-op.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	var keys [][]byte
	for _, k := range apiKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := publicPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			if reason := checkBearer(keys, r.Header.Get("Authorization")); reason != "" {
				logpkg.Annotate(r.Context(), zap.String("auth_rejected", reason))
				writeError(w, http.StatusUnauthorized, codeUnauthorized, reason)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// checkBearer returns an empty string when header holds a known key.
func checkBearer(keys [][]byte, header string) string {
	if header == "" {
		return "missing authorization header"
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "authorization header must use Bearer scheme"
	}
	token = strings.TrimSpace(token)

	// Compare against every key so timing does not reveal which one matched.
	match := 0
	for _, k := range keys {
		match |= subtle.ConstantTimeCompare(k, []byte(token))
	}
	if match != 1 {
		return "invalid api key"
	}
	return ""
}
