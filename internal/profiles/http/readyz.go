package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/profiles/internal/profiles/store"
	"github.com/aussiebroadwan/profiles/pkg/httpx"
	"github.com/aussiebroadwan/profiles/pkg/profilesdk"
)

// KeyStatus is implemented by verifiers that cache signing keys locally.
type KeyStatus interface {
	KeysReady() bool
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and the status of the users table
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	profilesdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	profilesdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, table store.Table, keys KeyStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &profilesdk.HealthChecks{Store: "ok"}
		if keys != nil {
			// Certificates load on the first token, so this never fails readiness.
			checks.Certs = "not loaded"
			if keys.KeysReady() {
				checks.Certs = "ok"
			}
		}
		status := "ok"
		code := http.StatusOK

		if err := table.Ping(r.Context()); err != nil {
			checks.Store = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, profilesdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
