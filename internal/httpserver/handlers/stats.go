package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/hwtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/hwtrack/internal/inventory"
)

// Stats serves GET /stats over the whole, unfiltered collection.
func Stats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := d.Store.Aggregate()
		if !d.Store.Ready() {
			writeError(w, d.Logger, inventory.ErrNotReady)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}
