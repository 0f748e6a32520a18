package jwtx

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoKey = errors.New("jwtx: key not found")

// KeySource resolves the RSA public key a token's "kid" header points at.
type KeySource interface {
	PublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error)
}

// ParseCertificates parses a kid to PEM map into RSA public keys.
func ParseCertificates(certs map[string]string) (map[string]*rsa.PublicKey, error) {
	out := make(map[string]*rsa.PublicKey, len(certs))
	for kid, pemData := range certs {
		pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemData))
		if err != nil {
			return nil, fmt.Errorf("jwtx: parse certificate %q: %w", kid, err)
		}
		out[kid] = pub
	}
	return out, nil
}
