// Package health contiene el controller para health checks.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/tourcube/guideportal/internal/cache"
	"github.com/tourcube/guideportal/internal/tenant"
)

// Response es el cuerpo de /healthz.
type Response struct {
	Status     string            `json:"status"`
	Version    string            `json:"version"`
	Components map[string]string `json:"components,omitempty"`
}

// Controller maneja las rutas de health check.
type Controller struct {
	Version  string
	Cache    cache.Client
	Registry *tenant.Registry
}

func NewController(version string, c cache.Client, reg *tenant.Registry) *Controller {
	return &Controller{Version: version, Cache: c, Registry: reg}
}

// Healthz maneja GET /healthz. Liveness simple: el proceso responde.
func (c *Controller) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Response{Status: "healthy", Version: c.Version})
}

// Readyz maneja GET /readyz. Chequea cache y registro de tenants.
func (c *Controller) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	components := map[string]string{}
	status := "ready"
	code := http.StatusOK

	if c.Cache != nil {
		if err := c.Cache.Ping(ctx); err != nil {
			components["cache"] = "unavailable"
			status = "degraded"
		} else {
			components["cache"] = "ok"
		}
	}

	if c.Registry == nil || c.Registry.Size() == 0 {
		components["tenants"] = "empty"
		status = "unavailable"
		code = http.StatusServiceUnavailable
	} else {
		components["tenants"] = "ok"
	}

	writeJSON(w, code, Response{Status: status, Version: c.Version, Components: components})
}

func writeJSON(w http.ResponseWriter, status int, v Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
