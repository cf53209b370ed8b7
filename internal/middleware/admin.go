package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/errs"
	"portfolio-backend/internal/transport"
)

const (
	AccessCookie   = "portfolio_access"
	RefreshCookie  = "portfolio_refresh"
	AdminKeyHeader = "X-Admin-Key"
)

// APIKeyIdentity is who automation acting through the admin API key is
// recorded as.
var APIKeyIdentity = auth.Identity{ID: "api-key", Username: "api-key", Role: auth.RoleAdmin}

// Authenticate resolves the caller's identity and stores the outcome in the
// request context. It never rejects: handlers and the content gate decide what
// a signed-out caller may do.
func Authenticate(adminKey string, manager *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := resolve(r, adminKey, manager)
			next.ServeHTTP(w, r.WithContext(auth.WithState(r.Context(), st)))
		})
	}
}

func resolve(r *http.Request, adminKey string, manager *auth.Manager) auth.State {
	if key := r.Header.Get(AdminKeyHeader); adminKey != "" && key != "" &&
		subtle.ConstantTimeCompare([]byte(key), []byte(adminKey)) == 1 {
		return auth.SignedIn(APIKeyIdentity)
	}
	if manager == nil {
		return auth.SignedOut()
	}

	token := bearerToken(r)
	if token == "" {
		if cookie, err := r.Cookie(AccessCookie); err == nil {
			token = cookie.Value
		}
	}
	if token == "" {
		return auth.SignedOut()
	}

	claims, err := manager.Parse(token, auth.TokenAccess)
	if err != nil || claims.Role != auth.RoleAdmin {
		return auth.SignedOut()
	}
	return auth.SignedIn(claims.Identity())
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// RequireAdmin rejects callers Authenticate could not identify.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := auth.StateFromContext(r.Context())
		if !st.Checked {
			transport.WriteAppError(w, errs.New(errs.KindAuthChecking, errs.MsgAuthChecking))
			return
		}
		if st.User == nil {
			transport.WriteAppError(w, errs.New(errs.KindUnauthenticated, errs.MsgUnauthenticated))
			return
		}
		next.ServeHTTP(w, r)
	})
}
