package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes bounds how much of a request body is read.
const MaxBodyBytes = 1 << 20

var ErrInvalidJSON = errors.New("httpx: body is not a JSON object")

// DecodeJSONObject reads the request body as a single JSON object. An empty
// body decodes to an empty object; anything other than an object (arrays,
// scalars, null, trailing data) is ErrInvalidJSON.
func DecodeJSONObject(r *http.Request) (map[string]any, error) {
	if r.Body == nil {
		return map[string]any{}, nil
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("httpx: read body: %w", err)
	}
	if len(raw) > MaxBodyBytes {
		return nil, fmt.Errorf("%w: body too large", ErrInvalidJSON)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	if obj == nil {
		return nil, ErrInvalidJSON
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data", ErrInvalidJSON)
	}
	return obj, nil
}

// JSONBody decodes the body with DecodeJSONObject and stores the result in
// the request context. Requests with an unusable body go to onInvalid.
func JSONBody(onInvalid http.Handler) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := DecodeJSONObject(r)
			if err != nil {
				onInvalid.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithBody(r.Context(), body)))
		})
	}
}
