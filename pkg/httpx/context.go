package httpx

import "context"

type ctxKey string

const (
	// CtxKeyUsername holds the authenticated principal's username (may be empty
	// for anonymous tokens).
	CtxKeyUsername ctxKey = "username"
	// CtxKeyPermissions holds the principal's permission strings.
	CtxKeyPermissions ctxKey = "permissions"
	// CtxKeyToken holds the literal token value the request authenticated with.
	CtxKeyToken ctxKey = "token"
)

// WithPrincipal injects the authenticated identity into the context.
func WithPrincipal(ctx context.Context, token, username string, permissions []string) context.Context {
	ctx = context.WithValue(ctx, CtxKeyToken, token)
	ctx = context.WithValue(ctx, CtxKeyUsername, username)
	ctx = context.WithValue(ctx, CtxKeyPermissions, permissions)
	return ctx
}

// PermissionsFromContext returns the authenticated principal's permissions,
// or nil when the request is unauthenticated.
func PermissionsFromContext(ctx context.Context) []string {
	if v, ok := ctx.Value(CtxKeyPermissions).([]string); ok {
		return v
	}
	return nil
}

// UsernameFromContext returns the authenticated principal's username.
func UsernameFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUsername).(string); ok {
		return v
	}
	return ""
}

// TokenFromContext returns the token value the request authenticated with.
func TokenFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyToken).(string); ok {
		return v
	}
	return ""
}
