package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// maxSubjectLength is the longest uid Firebase issues.
const maxSubjectLength = 128

// FirebaseClaims are the claims carried by a Firebase Authentication ID
// token. Only the fields this service reads are mapped.
type FirebaseClaims struct {
	jwt.RegisteredClaims

	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`

	// AuthTime is when the user last signed in (seconds since epoch).
	AuthTime int64 `json:"auth_time,omitempty"`

	Firebase FirebaseInfo `json:"firebase"`
}

// FirebaseInfo is the provider-specific "firebase" claim.
type FirebaseInfo struct {
	// SignInProvider e.g. "password", "google.com", "anonymous"
	SignInProvider string `json:"sign_in_provider,omitempty"`

	Identities map[string][]string `json:"identities,omitempty"`
}

// ValidateSubject checks the uid is present and within Firebase's bounds.
func (c *FirebaseClaims) ValidateSubject() error {
	if c.Subject == "" || len(c.Subject) > maxSubjectLength {
		return ErrInvalidClaim
	}
	return nil
}

// ValidateAuthTime ensures the sign-in did not happen in the future.
func (c *FirebaseClaims) ValidateAuthTime(now time.Time, leeway time.Duration) error {
	if c.AuthTime == 0 {
		return nil
	}
	if time.Unix(c.AuthTime, 0).After(now.Add(leeway)) {
		return ErrInvalidClaim
	}
	return nil
}
