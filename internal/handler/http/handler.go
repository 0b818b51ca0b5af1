package http

import (
	"net/http"

	"github.com/jget-crm/backoffice/internal/domain/authz"
	"github.com/jget-crm/backoffice/internal/handler/http/response"
)

// actor pulls the authorization context the auth middleware injected.
// A missing context means the route was mounted outside the auth group.
func actor(w http.ResponseWriter, r *http.Request) (authz.Context, bool) {
	ac, ok := authz.FromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
	}
	return ac, ok
}
