package authz

import (
	"log/slog"
	"net/http"

	"github.com/ratehub/ratehub/internal/auth"
	"github.com/ratehub/ratehub/internal/platform/httpx"
)

// Middleware wires authorization gates for HTTP handlers.
type Middleware struct {
	Logger *slog.Logger
}

// RequireRole denies the request unless the authenticated actor holds one of
// the given roles.
func (m Middleware) RequireRole(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.ClaimsFromContext(r.Context())
			if d := Evaluate(claims, RoleIn(roles...)); !d.Allow {
				if m.Logger != nil {
					m.Logger.Debug("request denied", slog.String("path", r.URL.Path), slog.String("reason", string(d.Reason)))
				}
				Deny(w, d)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Deny writes the problem response matching a deny decision. Unauthenticated
// maps to 401, everything else to 403.
func Deny(w http.ResponseWriter, d Decision) {
	if d.Reason == ReasonUnauthenticated {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}
	httpx.Problem(w, http.StatusForbidden, "Forbidden", "insufficient permissions")
}
