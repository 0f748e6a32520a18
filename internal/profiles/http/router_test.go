package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
	profileshttp "github.com/aussiebroadwan/profiles/internal/profiles/http"
	"github.com/aussiebroadwan/profiles/internal/profiles/identity"
	"github.com/aussiebroadwan/profiles/internal/profiles/service"
	"github.com/aussiebroadwan/profiles/internal/profiles/store"
	"github.com/aussiebroadwan/profiles/internal/profiles/store/drivers/memory"
	"github.com/aussiebroadwan/profiles/pkg/profilesdk"
)

// fakeVerifier accepts the tokens it was given.
type fakeVerifier map[string]domain.Claims

func (f fakeVerifier) Verify(_ context.Context, token string) (domain.Claims, error) {
	c, ok := f[token]
	if !ok {
		return domain.Claims{}, identity.ErrInvalidToken
	}
	return c, nil
}

// spyTable counts every call that reaches the table.
type spyTable struct {
	store.Table
	calls atomic.Int32
	panic atomic.Bool
}

func (s *spyTable) Get(ctx context.Context, userID string) (domain.Profile, error) {
	s.calls.Add(1)
	if s.panic.Load() {
		panic("table exploded")
	}
	return s.Table.Get(ctx, userID)
}

func (s *spyTable) PutIfAbsent(ctx context.Context, p domain.Profile) error {
	s.calls.Add(1)
	return s.Table.PutIfAbsent(ctx, p)
}

func (s *spyTable) UpdateIfExists(ctx context.Context, userID string, u store.Update) (domain.Profile, error) {
	s.calls.Add(1)
	return s.Table.UpdateIfExists(ctx, userID, u)
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type harness struct {
	srv   *httptest.Server
	table *spyTable
	clock *clock
	reg   *prometheus.Registry
}

var verifier = fakeVerifier{
	"tok-alice":  {Subject: "u1", Email: "a@example.com", SignInProvider: "password"},
	"tok-google": {Subject: "u2", Email: "g@example.com", SignInProvider: domain.ProviderGoogle},
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		table: &spyTable{Table: memory.NewStore()},
		clock: &clock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)},
		reg:   prometheus.NewRegistry(),
	}

	ps := store.NewProfileStore(h.table)
	ps.Now = h.clock.Now

	metrics, err := profileshttp.NewMetrics(h.reg, h.reg)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := profileshttp.NewRouter(verifier, h.table, metrics, "test", logger)
	router.ProfileService = &service.ProfileService{Store: ps, Now: h.clock.Now}
	router.ApplyRoutes()

	h.srv = httptest.NewServer(router)
	t.Cleanup(h.srv.Close)
	return h
}

func (h *harness) client(token string) *profilesdk.Client {
	c := profilesdk.NewClient(h.srv.URL)
	c.HTTPClient = h.srv.Client()
	return c.WithToken(token)
}

// do sends a raw request and decodes the JSON envelope.
func (h *harness) do(t *testing.T, method, path, authz, body string) (*http.Response, map[string]any) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(t.Context(), method, h.srv.URL+path, r)
	require.NoError(t, err)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}

	resp, err := h.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func requireAPIError(t *testing.T, err error, status int, message string) {
	t.Helper()
	var apiErr *profilesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, message, apiErr.Message)
}

func TestCreateProfile(t *testing.T) {
	h := newHarness(t)

	resp, err := h.client("tok-alice").CreateProfile(t.Context(), "alice")
	require.NoError(t, err)
	require.True(t, resp.Created)
	require.Equal(t, "Profile created", resp.Message)

	p := resp.Profile
	require.Equal(t, "u1", p.UserID)
	require.Equal(t, "a@example.com", *p.Email)
	require.Equal(t, "alice", p.Username)
	require.Nil(t, p.GoogleEmail)
	require.True(t, p.CreatedAt.Equal(p.UpdatedAt))
}

func TestCreateProfileGoogleSignIn(t *testing.T) {
	h := newHarness(t)

	resp, err := h.client("tok-google").CreateProfile(t.Context(), "gina")
	require.NoError(t, err)
	require.NotNil(t, resp.Profile.GoogleEmail)
	require.Equal(t, "g@example.com", *resp.Profile.GoogleEmail)
}

func TestCreateIsIdempotent(t *testing.T) {
	h := newHarness(t)
	c := h.client("tok-alice")

	first, err := c.CreateProfile(t.Context(), "alice")
	require.NoError(t, err)

	h.clock.Advance(time.Minute)

	for _, name := range []string{"alice", "someone-else"} {
		again, err := c.CreateProfile(t.Context(), name)
		require.NoError(t, err)
		require.False(t, again.Created)
		require.Equal(t, "Profile already exists", again.Message)
		require.Equal(t, "alice", again.Profile.Username)
		require.True(t, again.Profile.UpdatedAt.Equal(first.Profile.UpdatedAt))
	}
}

func TestCreateThenGet(t *testing.T) {
	h := newHarness(t)
	c := h.client("tok-alice")

	created, err := c.CreateProfile(t.Context(), "alice")
	require.NoError(t, err)

	got, err := c.GetProfile(t.Context())
	require.NoError(t, err)
	require.Equal(t, created.Profile.UserID, got.UserID)
	require.Equal(t, created.Profile.Username, got.Username)
	require.Equal(t, created.Profile.Email, got.Email)
	require.True(t, got.CreatedAt.Equal(got.UpdatedAt))
	require.True(t, got.CreatedAt.Equal(created.Profile.CreatedAt))
}

func TestGetMissingProfile(t *testing.T) {
	h := newHarness(t)

	_, err := h.client("tok-alice").GetProfile(t.Context())
	requireAPIError(t, err, http.StatusNotFound, "Profile not found")
}

func TestUpdateProfile(t *testing.T) {
	h := newHarness(t)
	c := h.client("tok-alice")

	_, err := c.CreateProfile(t.Context(), "alice")
	require.NoError(t, err)

	h.clock.Advance(time.Minute)

	resp, err := c.UpdateProfile(t.Context(), "alice2")
	require.NoError(t, err)
	require.Equal(t, "Profile updated", resp.Message)
	require.Equal(t, "alice2", resp.Profile.Username)
	require.Equal(t, "a@example.com", *resp.Profile.Email)
	require.True(t, resp.Profile.UpdatedAt.After(resp.Profile.CreatedAt))
}

func TestUpdateNeverCreates(t *testing.T) {
	h := newHarness(t)
	c := h.client("tok-alice")

	_, err := c.UpdateProfile(t.Context(), "ghost")
	requireAPIError(t, err, http.StatusNotFound, "Profile not found")

	_, err = c.GetProfile(t.Context())
	requireAPIError(t, err, http.StatusNotFound, "Profile not found")
}

func TestUsernameRequired(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{method: http.MethodPost, path: "/users", body: ``},
		{method: http.MethodPost, path: "/users", body: `{}`},
		{method: http.MethodPost, path: "/users", body: `{"username":"   "}`},
		{method: http.MethodPost, path: "/users", body: `{"username":42}`},
		{method: http.MethodPut, path: "/users/me", body: `{"username":""}`},
		{method: http.MethodPut, path: "/users/me", body: `{"username":" \t "}`},
		{method: http.MethodPut, path: "/users/me", body: `{"username":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.body, func(t *testing.T) {
			before := h.table.calls.Load()

			resp, body := h.do(t, tt.method, tt.path, "Bearer tok-alice", tt.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.Equal(t, "username is required", body["message"])
			require.Equal(t, before, h.table.calls.Load(), "no store call")
		})
	}
}

func TestAuthentication(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name    string
		method  string
		path    string
		authz   string
		message string
	}{
		{name: "missing header", method: http.MethodGet, path: "/users/me", message: "Missing Authorization Bearer token"},
		{name: "wrong scheme", method: http.MethodGet, path: "/users/me", authz: "Basic dTpw", message: "Missing Authorization Bearer token"},
		{name: "empty bearer", method: http.MethodPost, path: "/users", authz: "Bearer ", message: "Missing Authorization Bearer token"},
		{name: "unknown route", method: http.MethodGet, path: "/nope", message: "Missing Authorization Bearer token"},
		{name: "invalid token", method: http.MethodGet, path: "/users/me", authz: "Bearer forged", message: "Invalid or expired Firebase token"},
		{name: "invalid token put", method: http.MethodPut, path: "/users/me", authz: "Bearer forged", message: "Invalid or expired Firebase token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := h.do(t, tt.method, tt.path, tt.authz, "")
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			require.Equal(t, tt.message, body["message"])
		})
	}

	require.Zero(t, h.table.calls.Load())
}

func TestBearerSchemeIsCaseInsensitive(t *testing.T) {
	h := newHarness(t)

	resp, body := h.do(t, http.MethodPost, "/users", "bearer tok-alice", `{"username":"alice"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "Profile created", body["message"])

	profile, ok := body["profile"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "2024-05-01T09:00:00.000Z", profile["CreatedAt"])
}

func TestInvalidJSONBody(t *testing.T) {
	h := newHarness(t)

	for _, body := range []string{`{"username":`, `[1]`, `"alice"`, `null`} {
		t.Run(body, func(t *testing.T) {
			resp, out := h.do(t, http.MethodPost, "/users", "Bearer tok-alice", body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.Equal(t, "Invalid JSON body", out["message"])
		})
	}

	// Authentication is checked first.
	resp, out := h.do(t, http.MethodPut, "/users/me", "", `{"username":`)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Missing Authorization Bearer token", out["message"])

	require.Zero(t, h.table.calls.Load())
}

func TestRouteNotFound(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		method string
		path   string
	}{
		{method: http.MethodDelete, path: "/users/me"},
		{method: http.MethodGet, path: "/users"},
		{method: http.MethodPost, path: "/users/me"},
		{method: http.MethodGet, path: "/users/me/"},
		{method: http.MethodGet, path: "/"},
		{method: http.MethodPost, path: "/livez"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp, body := h.do(t, tt.method, tt.path, "Bearer tok-alice", "")
			require.Equal(t, http.StatusNotFound, resp.StatusCode)
			require.Equal(t, "Route not found", body["message"])
			require.Equal(t, map[string]any{"method": tt.method, "path": tt.path}, body["route"])
		})
	}
}

func TestUncleanPathsAreAuthenticated(t *testing.T) {
	h := newHarness(t)

	for _, p := range []string{"//users", "/users/../users/me", "/users/./me", "/users//me"} {
		t.Run(p, func(t *testing.T) {
			resp, body := h.do(t, http.MethodGet, p, "", "")
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			require.Equal(t, "Missing Authorization Bearer token", body["message"])

			resp, body = h.do(t, http.MethodGet, p, "Bearer tok-alice", "")
			require.Equal(t, http.StatusNotFound, resp.StatusCode)
			require.Equal(t, "Route not found", body["message"])
			require.Equal(t, map[string]any{"method": http.MethodGet, "path": p}, body["route"])
		})
	}
	require.Zero(t, h.table.calls.Load())
}

func TestPreflight(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/users", "/users/me", "/anything"} {
		resp, body := h.do(t, http.MethodOptions, path, "", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, map[string]any{"ok": true}, body)
	}
}

func TestEnvelopeHeaders(t *testing.T) {
	h := newHarness(t)

	for _, tt := range []struct{ method, authz string }{
		{http.MethodGet, "Bearer tok-alice"},
		{http.MethodGet, ""},
		{http.MethodOptions, ""},
	} {
		resp, _ := h.do(t, tt.method, "/users/me", tt.authz, "")
		require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		require.Equal(t, "Content-Type,Authorization", resp.Header.Get("Access-Control-Allow-Headers"))
		require.Equal(t, "GET,POST,PUT,DELETE,OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
		require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	}
}

func TestPanicBecomesInternalError(t *testing.T) {
	h := newHarness(t)
	h.table.panic.Store(true)

	resp, body := h.do(t, http.MethodGet, "/users/me", "Bearer tok-alice", "")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Equal(t, "Internal server error", body["message"])

	// The server keeps serving.
	h.table.panic.Store(false)
	resp, _ = h.do(t, http.MethodGet, "/livez", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	c := h.client("")

	live, err := c.GetLiveness(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := c.GetReadiness(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, "ok", ready.Checks.Store)
	require.Empty(t, ready.Checks.Certs, "verifier without a key cache")
}

func TestMetricsRecordRoutes(t *testing.T) {
	h := newHarness(t)

	_, err := h.client("tok-alice").CreateProfile(t.Context(), "alice")
	require.NoError(t, err)

	families, err := h.reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() != "profiles_http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["route"] == "POST /users" && labels["status"] == "201" {
				found = true
				require.Equal(t, float64(1), m.GetCounter().GetValue())
			}
		}
	}
	require.True(t, found)

	resp, err := h.srv.Client().Get(h.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
