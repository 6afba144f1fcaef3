package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/hwtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/hwtrack/internal/logger"
)

type reloadResponse struct {
	Assets int    `json:"assets"`
	Driver string `json:"driver"`
}

// Reload re-reads the inventory record, picking up changes written by
// another process.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assets, err := d.Store.Reload(r.Context(), d.Now())
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		d.Logger.Info("manual reload triggered via endpoint",
			logger.String("remote_ip", r.RemoteAddr),
			logger.Int("assets", len(assets)))

		writeJSON(w, http.StatusOK, reloadResponse{
			Assets: len(assets),
			Driver: d.Store.Driver(),
		})
	}
}
