package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/hwtrack/internal/domain"
	"github.com/MrSnakeDoc/hwtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/hwtrack/internal/inventory"
	"github.com/MrSnakeDoc/hwtrack/internal/logger"
)

const maxBodyBytes = 1 << 20

// assetView is an asset as listed: the stored fields plus the countdowns
// and label a table needs.
type assetView struct {
	domain.Asset
	StatusLabel         string `json:"statusLabel"`
	WarrantyDaysLeft    int    `json:"warrantyDaysLeft"`
	EndOfLifeDaysLeft   int    `json:"endOfLifeDaysLeft"`
	MaintenanceDaysLeft *int   `json:"maintenanceDaysLeft,omitempty"`
}

func newAssetView(a domain.Asset, today domain.Date) assetView {
	v := assetView{
		Asset:             a,
		StatusLabel:       domain.StatusLabel(a.Status),
		WarrantyDaysLeft:  domain.DaysUntil(a.WarrantyExpiry, today),
		EndOfLifeDaysLeft: domain.DaysUntil(a.EndOfLife, today),
	}
	if exp := a.MaintenanceContract.ExpiryDate; a.MaintenanceContract.HasContract && !exp.IsZero() {
		days := domain.DaysUntil(exp, today)
		v.MaintenanceDaysLeft = &days
	}
	return v
}

// ListAssets serves GET /assets?status=&category=&q=
func ListAssets(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := domain.Filter{
			Status:   domain.Status(strings.ToLower(strings.TrimSpace(q.Get("status")))),
			Category: domain.Category(strings.ToLower(strings.TrimSpace(q.Get("category")))),
			Search:   strings.TrimSpace(q.Get("q")),
		}
		if f.Status != "" && !f.Status.Valid() {
			writeBadRequest(w, fmt.Sprintf("unknown status %q", f.Status))
			return
		}

		today := domain.DateOf(d.Now())
		assets := d.Store.Query(f)
		if !d.Store.Ready() {
			writeError(w, d.Logger, inventory.ErrNotReady)
			return
		}
		views := make([]assetView, 0, len(assets))
		for _, a := range assets {
			views = append(views, newAssetView(a, today))
		}
		writeJSON(w, http.StatusOK, views)
	}
}

// GetAsset serves GET /assets/{id}
func GetAsset(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := d.Store.Get(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, newAssetView(a, domain.DateOf(d.Now())))
	}
}

// CreateAsset serves POST /assets
func CreateAsset(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in domain.AssetInput
		if !decodeBody(w, r, d, &in) {
			return
		}

		now := d.Now()
		a, err := d.Store.Create(r.Context(), in, now)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		w.Header().Set("Location", "/assets/"+a.ID)
		writeJSON(w, http.StatusCreated, newAssetView(a, domain.DateOf(now)))
	}
}

// UpdateAsset serves PATCH /assets/{id}
func UpdateAsset(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch domain.AssetPatch
		if !decodeBody(w, r, d, &patch) {
			return
		}

		now := d.Now()
		a, err := d.Store.Update(r.Context(), chi.URLParam(r, "id"), patch, now)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, newAssetView(a, domain.DateOf(now)))
	}
}

// DeleteAsset serves DELETE /assets/{id}. Unknown ids also answer 204.
func DeleteAsset(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Store.Delete(r.Context(), chi.URLParam(r, "id"), d.Now()); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// decodeBody reads a JSON body into dst and answers 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, d deps.Deps, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		d.Logger.Debug("rejected request body", logger.String("path", r.URL.Path), logger.Error(err))
		if errors.Is(err, domain.ErrInvalidDate) {
			writeError(w, d.Logger, err)
			return false
		}
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
