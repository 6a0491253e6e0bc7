package service

import (
	"context"

	"github.com/sangkips/ventapett-pos/internal/domain/entity"
)

type principalKey struct{}

// WithPrincipal attaches the authenticated user to ctx.
func WithPrincipal(ctx context.Context, p entity.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the user attached by WithPrincipal.
func PrincipalFrom(ctx context.Context) (entity.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(entity.Principal)
	return p, ok
}
