package jwtx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SecureTokenIssuerPrefix is followed by the project id in the "iss" claim
// of every Firebase ID token.
const SecureTokenIssuerPrefix = "https://securetoken.google.com/"

// DefaultLeeway absorbs clock skew between us and Google.
const DefaultLeeway = 5 * time.Second

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrUnknownKID  = errors.New("jwtx: unknown kid")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrUnverified  = errors.New("jwtx: token could not be verified")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrAudience    = errors.New("jwtx: audience mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")

	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// FirebaseVerifier validates Firebase ID tokens for a single project.
type FirebaseVerifier struct {
	keys      KeySource
	projectID string
	issuer    string
	leeway    time.Duration
	now       func() time.Time
}

// NewFirebaseVerifier returns a verifier accepting RS256 tokens issued for
// projectID and signed by a key from keys.
func NewFirebaseVerifier(keys KeySource, projectID string) *FirebaseVerifier {
	return &FirebaseVerifier{
		keys:      keys,
		projectID: projectID,
		issuer:    SecureTokenIssuerPrefix + projectID,
		leeway:    DefaultLeeway,
		now:       time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (v *FirebaseVerifier) WithClock(now func() time.Time) *FirebaseVerifier {
	v.now = now
	return v
}

// Verify validates the token string and returns its parsed claims.
func (v *FirebaseVerifier) Verify(ctx context.Context, tokenStr string) (*FirebaseClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.projectID),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(v.leeway),
		jwt.WithTimeFunc(v.now),
	)

	token, err := parser.ParseWithClaims(tokenStr, &FirebaseClaims{}, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("%w: missing kid", ErrUnknownKID)
		}
		pub, err := v.keys.PublicKey(ctx, kid)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrUnknownKID, kid, err)
		}
		return pub, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", classify(err), err)
	}

	claims, ok := token.Claims.(*FirebaseClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaim
	}

	if err := claims.ValidateSubject(); err != nil {
		return nil, err
	}
	if err := claims.ValidateAuthTime(v.now(), v.leeway); err != nil {
		return nil, err
	}

	return claims, nil
}

// classify maps golang-jwt's validation errors onto ours.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrUnknownKID):
		return ErrUnknownKID
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenUsedBeforeIssued), errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuer
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return ErrAudience
	default:
		return ErrUnverified
	}
}
