package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"
	"strings"

	"the-code-sage/guildhall/internal/auth"
	"the-code-sage/guildhall/internal/common"
)

// AuthMiddleware accepts either the bot's shared API key (with forwarded
// actor headers) or a signed moderator token from a dashboard link.
func AuthMiddleware(signer *common.TokenSigner) func(http.Handler) http.Handler {
	expectedKey := os.Getenv("GUILDHALL_API_KEY")

	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			authHeader := r.Header.Get("Authorization")
			apiKey := r.Header.Get("X-API-Key")

			var claims auth.UserClaims

			switch {
			case strings.HasPrefix(authHeader, "Bearer "):
				token, err := signer.Validate(strings.TrimPrefix(authHeader, "Bearer "))
				if err != nil {
					http.Error(w, "Unauthorized. Invalid token", http.StatusUnauthorized)
					return
				}
				claims = &auth.TokenClaims{
					ActorIDVal: token.UserID,
					ReportID:   token.ReportID,
				}

			case apiKey != "":
				if expectedKey == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(expectedKey)) != 1 {
					http.Error(w, "Unauthorized. Invalid API Key", http.StatusUnauthorized)
					return
				}
				claims = auth.MakeClaimsFromHeaders(
					r.Header.Get("X-Actor-Id"),
					r.Header.Get("X-Actor-Admin"),
				)

			default:
				http.Error(w, "Unauthorized. Missing credentials", http.StatusUnauthorized)
				return
			}

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
