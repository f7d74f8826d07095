package http

import (
	"net/http"
	"strings"

	"github.com/openkms/tokend/internal/token/realm"
	"github.com/openkms/tokend/pkg/httpx"
	"github.com/openkms/tokend/pkg/slogx"
	"github.com/openkms/tokend/pkg/tokensdk"
)

const queryTokenParam = "authorization_token"

// extractToken pulls the presented token from the Authorization header
// ("Token <value>") or, when enabled, the authorization_token query
// parameter. The header wins when both are present.
func extractToken(r *http.Request, queryEnabled bool) string {
	if authz := r.Header.Get("Authorization"); authz != "" {
		scheme, value, ok := strings.Cut(authz, " ")
		if ok && strings.EqualFold(scheme, "Token") {
			return strings.TrimSpace(value)
		}
		return ""
	}
	if queryEnabled {
		return r.URL.Query().Get(queryTokenParam)
	}
	return ""
}

// TokenAuthn authenticates the presented token against the realm, verifies
// it is currently usable, and injects the resulting principal into the
// request context. Requests without a usable token get a uniform 401.
func TokenAuthn(auth *realm.Authenticator, queryEnabled bool) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			value := extractToken(r, queryEnabled)

			rec, err := auth.Authenticate(ctx, value)
			if err == nil {
				rec, err = auth.Verify(ctx, *rec)
			}
			if err != nil {
				log.Info("token authentication failed", "path", r.URL.Path)
				httpx.WriteJSON(w, http.StatusUnauthorized, tokensdk.ErrorResponse{
					Error:            "unauthorized",
					ErrorDescription: "Authentication required",
				})
				return
			}

			ctx = httpx.WithPrincipal(ctx, value, rec.Username, rec.Permissions)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
