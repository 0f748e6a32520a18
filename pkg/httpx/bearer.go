package httpx

import (
	"net/http"
	"strings"
)

// BearerToken extracts the credential from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively (RFC 7235).
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(strings.TrimSpace(authz), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
