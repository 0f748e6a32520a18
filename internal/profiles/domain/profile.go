package domain

import (
	"encoding/json"
	"time"
)

// Attribute names as they are stored in the users table. The update builder
// and the storage drivers refer to fields by these names.
const (
	FieldUserID      = "UserId"
	FieldEmail       = "Email"
	FieldUsername    = "Username"
	FieldGoogleEmail = "GoogleEmail"
	FieldCreatedAt   = "CreatedAt"
	FieldUpdatedAt   = "UpdatedAt"
)

// TimeLayout is how timestamps are stored and sent: UTC with exactly three
// fractional digits, so stored values sort lexically in time order.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// StoredValue returns v as drivers persist it. Timestamps become TimeLayout
// strings; every other value is returned unchanged.
func StoredValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return FormatTime(t)
	}
	return v
}

// Profile is the single record kept per verified identity.
type Profile struct {
	UserID      string    `json:"UserId"      dynamodbav:"UserId"`
	Email       *string   `json:"Email"       dynamodbav:"Email"`
	Username    string    `json:"Username"    dynamodbav:"Username"`
	GoogleEmail *string   `json:"GoogleEmail" dynamodbav:"GoogleEmail"`
	CreatedAt   time.Time `json:"CreatedAt"   dynamodbav:"CreatedAt"`
	UpdatedAt   time.Time `json:"UpdatedAt"   dynamodbav:"UpdatedAt"`
}

// NewProfile builds the record stored on first sign-in. GoogleEmail is only
// populated when the identity provider reports a Google federated sign-in.
func NewProfile(c Claims, username string, now time.Time) Profile {
	p := Profile{
		UserID:    c.Subject,
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if c.Email != "" {
		email := c.Email
		p.Email = &email
		if c.SignInProvider == ProviderGoogle {
			googleEmail := c.Email
			p.GoogleEmail = &googleEmail
		}
	}

	return p
}

func (p Profile) MarshalJSON() ([]byte, error) {
	type plain Profile
	return json.Marshal(struct {
		plain
		CreatedAt string `json:"CreatedAt"`
		UpdatedAt string `json:"UpdatedAt"`
	}{plain(p), FormatTime(p.CreatedAt), FormatTime(p.UpdatedAt)})
}
