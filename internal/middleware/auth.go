package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/goalpace/internal/ctxkeys"
	"github.com/templui/goalpace/internal/model"
)

// TokenVerifier resolves a bearer token to its user.
type TokenVerifier interface {
	VerifyJWT(token string) (string, error)
	User(id string) (*model.User, error)
}

// AuthMiddleware checks for a bearer JWT and adds the user to context if valid.
// Requests without a valid token continue anonymously.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := verifier.VerifyJWT(token)
			if err != nil {
				slog.Debug("rejected bearer token", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			user, err := verifier.User(userID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			// Security: Remove password hash from context
			user.PasswordHash = ""

			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with 401
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.User(r.Context()) == nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="goalpace"`)
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
