package middleware

import (
	"net/http"

	"the-code-sage/guildhall/internal/auth"
)

// IsAdminMiddleware gates moderator-only routes (adjust, report review).
func IsAdminMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			claims := auth.GetUserClaims(r.Context())

			if claims == nil || !claims.IsAdmin() {
				http.Error(w, "Unauthorized. Need moderator perms", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
