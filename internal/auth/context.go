// ABOUTME: Principal type and request-context propagation helpers
// ABOUTME: Provides WithPrincipal/FromContext for handlers on both transports

package auth

import (
	"context"
)

// Principal is the verified identity attached to an authenticated request.
// It is only ever constructed from claims that passed signature and expiry
// checks, and it lives no longer than the request it was resolved for.
type Principal struct {
	ID    string
	Email string
}

// principalKey is the key type for storing a Principal in context.Context.
type principalKey struct{}

// WithPrincipal returns a new context with the Principal attached.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext retrieves the Principal from the context, returning nil if
// not present.
func FromContext(ctx context.Context) *Principal {
	val := ctx.Value(principalKey{})
	if val == nil {
		return nil
	}
	p, ok := val.(*Principal)
	if !ok {
		return nil
	}
	return p
}

// MustFromContext retrieves the Principal from the context, panicking if
// not present. Handlers behind the auth middleware use this; reaching the
// panic means the middleware chain is miswired.
func MustFromContext(ctx context.Context) *Principal {
	p := FromContext(ctx)
	if p == nil {
		panic("auth: Principal not found in context")
	}
	return p
}
