package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/shiftwise-hq/shiftwise-backend/internal/handler/http/response"
)

// AdminOnly guards the administrative corrections: force-reset, manual
// entries, deletions, shift administration and excusals.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, "Invalid token")
			return
		}

		role, ok := claims["role"].(string)
		if !ok || (role != "admin" && role != "manager") {
			response.Forbidden(w, "Administrative privileges required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
