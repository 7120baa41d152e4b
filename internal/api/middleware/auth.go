package middleware

import (
	"net/http"
	"strings"

	"github.com/AlyonaCIA/AI-diagnostic/internal/api/response"
	"golang.org/x/crypto/bcrypt"
)

// Auth validates Bearer tokens against a single configured bcrypt hash.
// The service is stateless, so there is no key store; one key covers the
// deployment. An empty hash disables authentication entirely.
type Auth struct {
	keyHash string
}

// NewAuth creates a new Auth middleware from a bcrypt hash of the API key.
func NewAuth(keyHash string) *Auth {
	return &Auth{keyHash: keyHash}
}

// Enabled reports whether a key hash is configured.
func (a *Auth) Enabled() bool { return a.keyHash != "" }

// Authenticate validates the Bearer token against the configured hash.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		rawKey := extractBearerToken(r)
		if rawKey == "" {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Missing or invalid Authorization header", nil)
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(a.keyHash), []byte(rawKey)) != nil {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Invalid API key", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
