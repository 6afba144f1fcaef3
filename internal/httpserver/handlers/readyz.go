package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/hwtrack/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready      bool   `json:"ready"`
	Driver     string `json:"driver"`
	LastReload string `json:"last_reload,omitempty"`
}

// Readyz reports 503 until the inventory has been loaded. The probe itself
// triggers the load, so a fresh process becomes ready on its first check.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, ready := d.Store.Load(r.Context(), d.Now())

		resp := readyzResponse{
			Ready:  ready,
			Driver: d.Store.Driver(),
		}
		if last := d.Store.LastLoad(); !last.IsZero() {
			resp.LastReload = last.Format("2006-01-02 15:04:05")
		}

		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}
