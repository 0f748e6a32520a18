package http

import (
	"context"

	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
)

type ctxKey struct{}

func withClaims(ctx context.Context, c domain.Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// claimsFromContext returns the verified caller. Only handlers behind Authn
// may call it.
func claimsFromContext(ctx context.Context) domain.Claims {
	c, _ := ctx.Value(ctxKey{}).(domain.Claims)
	return c
}
