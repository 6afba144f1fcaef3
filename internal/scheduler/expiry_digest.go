package scheduler

import (
	"context"
	"sort"
	"time"

	"github.com/MrSnakeDoc/hwtrack/internal/domain"
	"github.com/MrSnakeDoc/hwtrack/internal/logger"
)

// Inventory is the read side the digest needs.
type Inventory interface {
	Query(f domain.Filter) []domain.Asset
}

// Expiry is one upcoming lifecycle date.
type Expiry struct {
	AssetID  string
	Name     string
	Kind     string // warranty, endOfLife or maintenance
	Date     domain.Date
	DaysLeft int
}

// ExpiryDigest periodically logs the assets whose warranty, end of life or
// maintenance contract runs out within the horizon. It never mutates the
// inventory.
type ExpiryDigest struct {
	inventory   Inventory
	logger      logger.Logger
	interval    time.Duration
	horizonDays int
	now         func() time.Time
	stopCh      chan struct{}
}

// NewExpiryDigest creates a digest over inv.
func NewExpiryDigest(
	inv Inventory,
	log logger.Logger,
	interval time.Duration,
	horizonDays int,
) *ExpiryDigest {
	return &ExpiryDigest{
		inventory:   inv,
		logger:      log,
		interval:    interval,
		horizonDays: horizonDays,
		now:         time.Now,
		stopCh:      make(chan struct{}),
	}
}

// Start logs a first digest, then one per interval until Stop or ctx ends.
// A non-positive interval disables the digest.
func (ed *ExpiryDigest) Start(ctx context.Context) {
	if ed.interval <= 0 {
		ed.logger.Info("expiry digest disabled")
		return
	}
	ed.Run()

	ticker := time.NewTicker(ed.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ed.Run()
			case <-ed.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the digest
func (ed *ExpiryDigest) Stop() {
	close(ed.stopCh)
}

// Run computes and logs one digest.
func (ed *ExpiryDigest) Run() []Expiry {
	today := domain.DateOf(ed.now())
	upcoming := Upcoming(ed.inventory.Query(domain.Filter{}), today, ed.horizonDays)

	if len(upcoming) == 0 {
		ed.logger.Debug("no lifecycle dates within horizon",
			logger.Int("horizon_days", ed.horizonDays))
		return upcoming
	}

	ed.logger.Info("upcoming lifecycle expirations",
		logger.Int("count", len(upcoming)),
		logger.Int("horizon_days", ed.horizonDays))
	for _, e := range upcoming {
		ed.logger.Info("asset expiring",
			logger.String("asset_id", e.AssetID),
			logger.String("name", e.Name),
			logger.String("kind", e.Kind),
			logger.Stringer("date", e.Date),
			logger.Int("days_left", e.DaysLeft))
	}
	return upcoming
}

// Upcoming lists the dates falling between today and today+horizonDays,
// soonest first. Dates already passed are left out: the status engine
// reports those.
func Upcoming(assets []domain.Asset, today domain.Date, horizonDays int) []Expiry {
	var out []Expiry
	add := func(a domain.Asset, kind string, d domain.Date) {
		if d.IsZero() {
			return
		}
		days := domain.DaysUntil(d, today)
		if days < 0 || days > horizonDays {
			return
		}
		out = append(out, Expiry{AssetID: a.ID, Name: a.Name, Kind: kind, Date: d, DaysLeft: days})
	}

	for _, a := range assets {
		add(a, "warranty", a.WarrantyExpiry)
		add(a, "endOfLife", a.EndOfLife)
		if a.MaintenanceContract.HasContract {
			add(a, "maintenance", a.MaintenanceContract.ExpiryDate)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysLeft < out[j].DaysLeft })
	return out
}
