package identity

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ServiceAccount is the subset of a Google service-account key file needed to
// trust tokens for a project.
type ServiceAccount struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

var (
	ErrServiceAccountType    = errors.New("identity: credential is not a service account")
	ErrServiceAccountProject = errors.New("identity: service account project mismatch")
)

// ParseServiceAccount decodes and validates a service-account JSON document
// for projectID.
func ParseServiceAccount(raw []byte, projectID string) (*ServiceAccount, error) {
	var sa ServiceAccount
	if err := json.Unmarshal(raw, &sa); err != nil {
		return nil, fmt.Errorf("identity: decode service account: %w", err)
	}

	if sa.Type != "service_account" {
		return nil, ErrServiceAccountType
	}
	if sa.ProjectID == "" || sa.ClientEmail == "" || sa.PrivateKey == "" {
		return nil, errors.New("identity: service account is missing project_id, client_email or private_key")
	}
	if sa.ProjectID != projectID {
		return nil, fmt.Errorf("%w: have %q, want %q", ErrServiceAccountProject, sa.ProjectID, projectID)
	}

	if _, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(sa.PrivateKey)); err != nil {
		return nil, fmt.Errorf("identity: parse service account private key: %w", err)
	}

	return &sa, nil
}
