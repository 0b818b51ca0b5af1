package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jget-crm/backoffice/internal/domain/auth"
	"github.com/jget-crm/backoffice/internal/domain/authz"
	"github.com/jget-crm/backoffice/internal/domain/user"
	"github.com/jget-crm/backoffice/internal/handler/http/response"
)

// AuthRequired rejects requests without a verified access token and
// materializes the token claims into an authz.Context. Handlers and
// services receive the acting user explicitly from the request context
// instead of re-reading claims.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != "access" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			userID, _ := claims["user_id"].(string)
			roleStr, _ := claims["role"].(string)
			role := user.Role(roleStr)
			if userID == "" || !role.Valid() {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			ac := authz.Context{
				UserID:   userID,
				Role:     role,
				BranchID: optionalClaim(claims, "branch_id"),
				CityID:   optionalClaim(claims, "city_id"),
			}

			next.ServeHTTP(w, r.WithContext(authz.Inject(r.Context(), ac)))
		}
		return http.HandlerFunc(hfn)
	}
}

func optionalClaim(claims map[string]interface{}, key string) *string {
	if v, ok := claims[key].(string); ok && v != "" {
		return &v
	}
	return nil
}
