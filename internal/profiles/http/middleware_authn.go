package http

import (
	"net/http"

	"github.com/aussiebroadwan/profiles/internal/profiles/identity"
	"github.com/aussiebroadwan/profiles/pkg/httpx"
	"github.com/aussiebroadwan/profiles/pkg/profilesdk"
	"github.com/aussiebroadwan/profiles/pkg/slogx"
)

// Authn requires a verified Firebase ID token and puts the caller's claims in
// the request context.
func Authn(v identity.Verifier) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := httpx.BearerToken(r)
			if !ok {
				profilesdk.ErrMissingToken.WriteError(w)
				return
			}

			claims, err := v.Verify(ctx, token)
			if err != nil {
				slogx.FromContext(ctx).Warn("token verification failed", "err", err)
				profilesdk.ErrInvalidToken.WriteError(w)
				return
			}

			ctx = withClaims(ctx, claims)
			ctx = slogx.With(ctx, "user_id", claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
