package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kinopsis/agensalud/internal/tenancy"
)

const roleHeader = "X-User-Role"

// requireOrgID places the org id path parameter in the request context and
// rejects requests without one.
func requireOrgID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		orgID := strings.TrimSpace(chi.URLParam(r, "orgID"))
		if orgID == "" {
			http.Error(w, "missing organization id", http.StatusBadRequest)
			return
		}
		ctx := tenancy.WithOrgID(r.Context(), orgID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requesterRole copies the role asserted by the auth layer into context.
// Missing or unknown roles are left for the handler, which falls back to
// the strictest (patient) rule.
func requesterRole(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := strings.TrimSpace(r.Header.Get(roleHeader))
		if role != "" {
			r = r.WithContext(tenancy.WithRole(r.Context(), role))
		}
		next.ServeHTTP(w, r)
	})
}
