package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/conduit/internal/auth/store"
	"github.com/aussiebroadwan/conduit/pkg/authsdk"
	"github.com/aussiebroadwan/conduit/pkg/httpx"
	"github.com/aussiebroadwan/conduit/pkg/jwtx"
	"github.com/aussiebroadwan/conduit/pkg/slogx"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	Store     store.Store
	Keys      *jwtx.KeyManager
	Version   string
	StartTime time.Time
}

// Livez reports that the process is up.
//
//	@Summary		Liveness probe
//	@Description	Always 200 while the process is serving requests.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func (h *HealthHandler) Livez(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, authsdk.HealthResponse{
		Status:  "ok",
		Uptime:  time.Since(h.StartTime).Round(time.Second).String(),
		Version: h.Version,
	})
}

// Readyz reports whether the database and signing keys are usable.
//
//	@Summary		Readiness probe
//	@Description	Checks the database connection and that signing keys are loaded. Answers 503 when either fails.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Router			/readyz [get].
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	resp := authsdk.HealthResponse{
		Status:  "ok",
		Uptime:  time.Since(h.StartTime).Round(time.Second).String(),
		Version: h.Version,
		Checks:  &authsdk.HealthChecks{Database: "ok", Signer: "ok"},
	}
	code := http.StatusOK

	if err := h.Store.Ping(r.Context()); err != nil {
		slogx.FromContext(r.Context()).Warn("readiness: database unreachable", "err", err)
		resp.Checks.Database = "error: " + err.Error()
		resp.Status, code = "degraded", http.StatusServiceUnavailable
	}
	if !h.Keys.IsReady() {
		resp.Checks.Signer = "error: no keys loaded"
		resp.Status, code = "degraded", http.StatusServiceUnavailable
	}

	httpx.WriteJSON(w, code, resp)
}
