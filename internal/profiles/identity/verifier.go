package identity

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
)

// ErrInvalidToken is returned for every verification failure. Callers only
// need to know the token was not accepted; the cause is wrapped for logs.
var ErrInvalidToken = errors.New("identity: invalid or expired token")

// Verifier turns a bearer token into verified identity claims.
type Verifier interface {
	Verify(ctx context.Context, token string) (domain.Claims, error)
}
