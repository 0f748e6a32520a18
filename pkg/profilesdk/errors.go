package profilesdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/profiles/pkg/httpx"
)

// Route echoes the request line of an unmatched request.
type Route struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// APIError is the error envelope of the profiles service. It implements the
// error interface and is used both by the server (to write HTTP responses)
// and by the client (to represent failed calls).
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Route      *Route `json:"route,omitempty"`
}

func (e *APIError) Error() string {
	if e.Route != nil {
		return fmt.Sprintf("%d: %s (%s %s)", e.StatusCode, e.Message, e.Route.Method, e.Route.Path)
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// WriteError writes the envelope with its status code.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, e)
}

// Predefined errors. Messages are part of the API contract.
var (
	ErrMissingToken = &APIError{
		StatusCode: http.StatusUnauthorized,
		Message:    "Missing Authorization Bearer token",
	}

	ErrInvalidToken = &APIError{
		StatusCode: http.StatusUnauthorized,
		Message:    "Invalid or expired Firebase token",
	}

	ErrInvalidJSON = &APIError{
		StatusCode: http.StatusBadRequest,
		Message:    "Invalid JSON body",
	}

	ErrUsernameRequired = &APIError{
		StatusCode: http.StatusBadRequest,
		Message:    "username is required",
	}

	ErrProfileNotFound = &APIError{
		StatusCode: http.StatusNotFound,
		Message:    "Profile not found",
	}

	ErrInternal = &APIError{
		StatusCode: http.StatusInternalServerError,
		Message:    "Internal server error",
	}
)

// NewRouteNotFound reports a request that matched no route.
func NewRouteNotFound(method, path string) *APIError {
	return &APIError{
		StatusCode: http.StatusNotFound,
		Message:    "Route not found",
		Route:      &Route{Method: method, Path: path},
	}
}

// parseErrorResponse turns a non-2xx response into an *APIError. Bodies that
// are not an envelope fall back to the status text.
func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	apiErr.StatusCode = resp.StatusCode
	return apiErr
}
