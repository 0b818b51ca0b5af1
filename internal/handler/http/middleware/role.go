package middleware

import (
	"net/http"

	"github.com/jget-crm/backoffice/internal/domain/authz"
	"github.com/jget-crm/backoffice/internal/domain/user"
	"github.com/jget-crm/backoffice/internal/handler/http/response"
)

// ManagerOnly limits a route to the manager role.
func ManagerOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ac, ok := authz.FromContext(r.Context())
		if !ok {
			response.Unauthorized(w, "Authentication required")
			return
		}
		if ac.Role != user.RoleManager {
			response.Forbidden(w, "Manager privilege required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ManageOnly limits a route to managers and admins.
func ManageOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ac, ok := authz.FromContext(r.Context())
		if !ok {
			response.Unauthorized(w, "Authentication required")
			return
		}
		if !ac.CanManage() {
			response.Forbidden(w, "Manager or admin privilege required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
