package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	authcore "github.com/MrEthical07/authcore"
)

type userContextKey struct{}

// UserFromContext returns the user injected by Guard, if any.
func UserFromContext(ctx context.Context) (*authcore.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*authcore.User)
	return user, ok
}

// Guard authenticates the request's bearer token and injects the resolved
// user into the request context. Requests without a valid token are
// rejected with the status code mapped by StatusForError.
func Guard(engine *authcore.Engine) func(http.Handler) http.Handler {
	return RequireRoles(engine, nil)
}

// RequireRoles authenticates the bearer token and additionally applies a
// role predicate. Role membership comes from the stored user record, so a
// role revoked after token issue denies access immediately.
func RequireRoles(engine *authcore.Engine, predicate authcore.RolePredicate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := authcore.WithClientIP(r.Context(), clientIP(r))

			user, err := engine.Authorize(ctx, token, predicate)
			if err != nil {
				status := StatusForError(err)
				http.Error(w, http.StatusText(status), status)
				return
			}

			ctx = context.WithValue(ctx, userContextKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StatusForError maps engine errors onto HTTP status codes.
func StatusForError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, authcore.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, authcore.ErrUserExists), errors.Is(err, authcore.ErrDuplicateKey):
		return http.StatusConflict
	case errors.Is(err, authcore.ErrPasswordPolicy):
		return http.StatusUnprocessableEntity
	case errors.Is(err, authcore.ErrLoginRateLimited), errors.Is(err, authcore.ErrRefreshRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, authcore.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, authcore.ErrUserNotFound):
		return http.StatusNotFound
	default:
		// Credential and token failures collapse to 401 so responses do
		// not leak which check failed.
		return http.StatusUnauthorized
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}

	host := r.RemoteAddr
	if i := strings.LastIndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	return host
}
