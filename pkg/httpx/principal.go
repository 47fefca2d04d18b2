package httpx

import "context"

// Principal is the authenticated caller attached to a request context after a
// token verifies successfully. Authorities stays empty; there is no roles
// model.
type Principal struct {
	ID          int64
	Email       string
	Nickname    string
	Authorities []string
}

type principalKey struct{}

// ContextWithPrincipal attaches the authenticated caller to the context.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the authenticated caller, if any. The second
// return is false for anonymous requests.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
