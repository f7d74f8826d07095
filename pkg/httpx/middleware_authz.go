package httpx

import (
	"net/http"

	"github.com/openkms/tokend/pkg/permit"
)

// RequirePermission rejects the request unless the authenticated principal
// holds a permission implying the required capability string.
func RequirePermission(required string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			granted := PermissionsFromContext(r.Context())
			if !permit.AnyImplies(granted, required) {
				WriteJSON(w, http.StatusForbidden, map[string]string{
					"error":             "forbidden",
					"error_description": "permission denied",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
