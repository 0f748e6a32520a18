package profilesdk

import (
	"encoding/json"
	"time"
)

// Profile is the wire representation of a stored profile.
type Profile struct {
	UserID      string    `json:"UserId"`
	Email       *string   `json:"Email"`
	Username    string    `json:"Username"`
	GoogleEmail *string   `json:"GoogleEmail"`
	CreatedAt   time.Time `json:"CreatedAt"`
	UpdatedAt   time.Time `json:"UpdatedAt"`
}

// TimeLayout is the timestamp format on the wire: UTC, millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

func (p Profile) MarshalJSON() ([]byte, error) {
	type plain Profile
	return json.Marshal(struct {
		plain
		CreatedAt string `json:"CreatedAt"`
		UpdatedAt string `json:"UpdatedAt"`
	}{plain(p), p.CreatedAt.UTC().Format(TimeLayout), p.UpdatedAt.UTC().Format(TimeLayout)})
}

// ProfileResponse is returned by create, get and update.
type ProfileResponse struct {
	// Message is empty for reads.
	Message string  `json:"message,omitempty"`
	Profile Profile `json:"profile"`

	// Created is set by the client when the service answered 201.
	Created bool `json:"-"`
}

// UsernameRequest is the body of create and update.
type UsernameRequest struct {
	Username string `json:"username"`
}

// PreflightResponse answers every OPTIONS request.
type PreflightResponse struct {
	OK bool `json:"ok"`
}

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the status of the service's dependencies.
type HealthChecks struct {
	// Store is the users table ("ok" or "error: ...").
	Store string `json:"store"`

	// Certs reports whether token signing certificates are cached ("ok" or
	// "not loaded"). Informational only, it never makes the service unready.
	Certs string `json:"certs,omitempty"`
}
