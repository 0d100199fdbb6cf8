package auth

import "context"

// Principal is the identity attached to a request after its bearer token
// has been validated. The zero value is unauthenticated.
type Principal struct {
	AccountID ID
	Email     string
}

func (p Principal) Authenticated() bool {
	return p.AccountID != "" && p.Email != ""
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored in ctx, if any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok || !p.Authenticated() {
		return Principal{}, false
	}
	return p, true
}
