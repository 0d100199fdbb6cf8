package auth

import (
	"log/slog"
	"net/http"
	"strings"
)

var publicPaths = map[string]bool{
	"/status":   true,
	"/health":   true,
	"/register": true,
	"/activate": true,
	"/error":    true,
	"/login":    true,
}

// IsPublicPath reports whether path may be served without a principal.
// A single trailing slash is ignored so the router can redirect it.
func IsPublicPath(path string) bool {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	if publicPaths[path] {
		return true
	}
	return strings.HasPrefix(path, "/activate/")
}

// Authenticate resolves the bearer token on each request into a Principal.
// Requests without a usable token continue unauthenticated; rejecting them
// is RequireAuth's job.
func Authenticate(tokens TokenVerifier, accounts Repository, logger *slog.Logger, next http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		subject, err := tokens.ExtractSubject(token)
		if err != nil {
			logger.DebugContext(r.Context(), "auth_event", "event", "token_rejected", "reason", err.Error())
			next.ServeHTTP(w, r)
			return
		}

		if !tokens.Validate(token, subject) {
			logger.DebugContext(r.Context(), "auth_event", "event", "token_rejected", "reason", "invalid")
			next.ServeHTTP(w, r)
			return
		}

		acc, err := accounts.FindByEmail(r.Context(), subject)
		if err != nil {
			logger.DebugContext(r.Context(), "auth_event", "event", "token_rejected", "reason", "account_lookup", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		p := Principal{AccountID: acc.ID, Email: acc.Credentials.Email}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

// RequireAuth rejects requests to non-public paths that carry no principal.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		if _, ok := PrincipalFrom(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			encodeError(errUnauthenticated, w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(strings.TrimSpace(h), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
