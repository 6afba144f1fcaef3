// Package inventory owns the asset collection: it loads it from a durable
// record, keeps every asset's status derived from its dates, and writes the
// full collection back after each mutation.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/hwtrack/internal/domain"
	"github.com/MrSnakeDoc/hwtrack/internal/index"
	"github.com/MrSnakeDoc/hwtrack/internal/logger"
	"github.com/MrSnakeDoc/hwtrack/internal/metrics"
	"github.com/MrSnakeDoc/hwtrack/internal/storage"
)

// maxIDAttempts bounds retries when NewID returns an id already in use.
const maxIDAttempts = 8

// Options configures a Store. Only Policy has no default: a zero Policy
// is a zero-day horizon.
type Options struct {
	Policy domain.Policy
	// Seed is adopted when the record is absent or malformed.
	// Nil means an empty collection.
	Seed []domain.Asset
	// Categories restricts Asset.Category; empty accepts any value.
	Categories      []domain.Category
	RequireUnitCost bool

	NewID  func() string    // defaults to uuid.NewString
	Now    func() time.Time // clock for reads that trigger the initial load
	Logger logger.Logger
	// Metrics may be nil.
	Metrics *metrics.Metrics
}

// Listener receives a snapshot of the collection after it changed.
type Listener func([]domain.Asset)

// Store is the stateful inventory. All methods are safe for concurrent use;
// a single mutex serializes them so a reader never observes a write in
// progress.
type Store struct {
	mu     sync.Mutex
	record storage.Record
	index  *index.MemoryIndex

	policy          domain.Policy
	seed            []domain.Asset
	categories      []domain.Category
	requireUnitCost bool
	newID           func() string
	now             func() time.Time
	log             logger.Logger
	metrics         *metrics.Metrics

	loaded bool
	// generation counts applied changes; guarded by mu.
	generation uint64

	listenersMu sync.Mutex
	listeners   []Listener
	// deliverMu orders notifications; delivered is the last generation sent.
	deliverMu sync.Mutex
	delivered uint64
}

// New creates a store on top of record. Nothing is read until the first
// operation.
func New(record storage.Record, opts Options) *Store {
	s := &Store{
		record:          record,
		index:           index.NewMemoryIndex(),
		policy:          opts.Policy,
		categories:      opts.Categories,
		requireUnitCost: opts.RequireUnitCost,
		newID:           opts.NewID,
		now:             opts.Now,
		log:             opts.Logger,
		metrics:         opts.Metrics,
	}
	for _, a := range opts.Seed {
		s.seed = append(s.seed, a.Clone())
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	return s
}

// Load returns the collection, reading the record on first access.
// An absent or malformed record is replaced by the seed. A record that
// cannot be read at all leaves the store not ready; the read is retried on
// the next access.
func (s *Store) Load(ctx context.Context, now time.Time) ([]domain.Asset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx, domain.DateOf(now)); err != nil {
		s.log.Error("inventory not ready", logger.Error(err))
		return []domain.Asset{}, false
	}
	return s.index.All(), true
}

// Reload re-reads the record unconditionally. Unlike Load it reports
// read and decode failures, and keeps the current collection when they
// happen.
func (s *Store) Reload(ctx context.Context, now time.Time) ([]domain.Asset, error) {
	s.mu.Lock()
	today := domain.DateOf(now)

	data, err := s.record.Read(ctx)
	switch {
	case errors.Is(err, storage.ErrNotExist):
		s.adoptSeed(ctx, today, "absent")
	case err != nil:
		s.mu.Unlock()
		s.metrics.Observe("reload", "error")
		return nil, fmt.Errorf("read inventory record: %w", err)
	default:
		assets, err := decode(data)
		if err != nil {
			s.mu.Unlock()
			s.metrics.Observe("reload", "error")
			return nil, err
		}
		s.adopt(assets, today)
	}
	s.loaded = true
	snapshot := s.index.All()
	gen := s.nextGeneration()
	s.mu.Unlock()

	s.log.Info("inventory reloaded",
		logger.Int("assets", len(snapshot)),
		logger.String("driver", s.record.Driver()),
	)
	s.metrics.Observe("reload", "ok")
	s.notify(snapshot, gen)
	return snapshot, nil
}

// Create validates in, assigns it a fresh id and appends it.
func (s *Store) Create(ctx context.Context, in domain.AssetInput, now time.Time) (domain.Asset, error) {
	s.mu.Lock()
	today := domain.DateOf(now)

	if err := s.ensureLoaded(ctx, today); err != nil {
		s.mu.Unlock()
		s.metrics.Observe("create", "error")
		return domain.Asset{}, err
	}

	a := in.ToAsset()
	if err := s.validate(a); err != nil {
		s.mu.Unlock()
		s.metrics.Observe("create", "invalid")
		return domain.Asset{}, err
	}

	id, err := s.freshID()
	if err != nil {
		s.mu.Unlock()
		s.metrics.Observe("create", "error")
		return domain.Asset{}, err
	}
	a.ID = id
	a.CreatedAt = today
	a.UpdatedAt = today
	a = s.withRecomputedStatus(a, today)

	next := append(s.index.All(), a)
	if err := s.persist(ctx, next); err != nil {
		s.mu.Unlock()
		s.metrics.Observe("create", "error")
		return domain.Asset{}, err
	}
	s.index.Append(a)
	snapshot := s.index.All()
	gen := s.nextGeneration()
	s.mu.Unlock()

	s.log.Info("asset created", logger.String("id", a.ID), logger.String("status", string(a.Status)))
	s.metrics.Observe("create", "ok")
	s.notify(snapshot, gen)
	return a.Clone(), nil
}

// Update merges patch onto the asset with the given id and returns the
// result. ErrNotFound leaves the collection untouched.
func (s *Store) Update(ctx context.Context, id string, patch domain.AssetPatch, now time.Time) (domain.Asset, error) {
	s.mu.Lock()
	today := domain.DateOf(now)

	if err := s.ensureLoaded(ctx, today); err != nil {
		s.mu.Unlock()
		s.metrics.Observe("update", "error")
		return domain.Asset{}, err
	}

	current, ok := s.index.Get(id)
	if !ok {
		s.mu.Unlock()
		s.metrics.Observe("update", "not_found")
		return domain.Asset{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	a := patch.Apply(current)
	a.ID = current.ID
	a.CreatedAt = current.CreatedAt
	a.UpdatedAt = today
	if err := s.validate(a); err != nil {
		s.mu.Unlock()
		s.metrics.Observe("update", "invalid")
		return domain.Asset{}, err
	}
	a = s.withRecomputedStatus(a, today)

	next := s.index.All()
	for i := range next {
		if next[i].ID == id {
			next[i] = a
			break
		}
	}
	if err := s.persist(ctx, next); err != nil {
		s.mu.Unlock()
		s.metrics.Observe("update", "error")
		return domain.Asset{}, err
	}
	s.index.Set(a)
	snapshot := s.index.All()
	gen := s.nextGeneration()
	s.mu.Unlock()

	s.log.Info("asset updated", logger.String("id", a.ID), logger.String("status", string(a.Status)))
	s.metrics.Observe("update", "ok")
	s.notify(snapshot, gen)
	return a.Clone(), nil
}

// Delete removes the asset with the given id. Deleting an unknown id is a
// no-op and writes nothing.
func (s *Store) Delete(ctx context.Context, id string, now time.Time) error {
	s.mu.Lock()

	if err := s.ensureLoaded(ctx, domain.DateOf(now)); err != nil {
		s.mu.Unlock()
		s.metrics.Observe("delete", "error")
		return err
	}

	if _, ok := s.index.Get(id); !ok {
		s.mu.Unlock()
		s.metrics.Observe("delete", "noop")
		return nil
	}

	current := s.index.All()
	next := make([]domain.Asset, 0, len(current))
	for _, a := range current {
		if a.ID != id {
			next = append(next, a)
		}
	}
	if err := s.persist(ctx, next); err != nil {
		s.mu.Unlock()
		s.metrics.Observe("delete", "error")
		return err
	}
	s.index.Delete(id)
	snapshot := s.index.All()
	gen := s.nextGeneration()
	s.mu.Unlock()

	s.log.Info("asset deleted", logger.String("id", id))
	s.metrics.Observe("delete", "ok")
	s.notify(snapshot, gen)
	return nil
}

// Get returns one asset by id, or ErrNotReady when the record cannot be
// read.
func (s *Store) Get(id string) (domain.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedForRead(); err != nil {
		return domain.Asset{}, err
	}
	a, ok := s.index.Get(id)
	if !ok {
		return domain.Asset{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return a, nil
}

// Query returns the assets matching f, in collection order. It is empty
// while the store is not ready; check Ready to tell the two apart.
func (s *Store) Query(f domain.Filter) []domain.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.ensureLoadedForRead()
	out := []domain.Asset{}
	for _, a := range s.index.All() {
		if f.Match(a) {
			out = append(out, a)
		}
	}
	return out
}

// Aggregate counts the whole collection, ignoring any filter.
func (s *Store) Aggregate() domain.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.ensureLoadedForRead()
	return domain.Aggregate(s.index.All())
}

// Ready reports whether the collection has been loaded.
func (s *Store) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// LastLoad returns when the collection was last read from the record.
func (s *Store) LastLoad() time.Time {
	return s.index.GetLastReload()
}

// Driver names the storage backend behind the store.
func (s *Store) Driver() string {
	return s.record.Driver()
}

// Subscribe registers fn to receive the collection after every change.
// Listeners run synchronously, after the store lock is released, one at a
// time and in change order; a snapshot overtaken by a newer one is dropped.
// A listener may read from the store but must not mutate it.
func (s *Store) Subscribe(fn Listener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// nextGeneration stamps a change. Caller holds s.mu.
func (s *Store) nextGeneration() uint64 {
	s.generation++
	return s.generation
}

func (s *Store) notify(snapshot []domain.Asset, gen uint64) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	if gen <= s.delivered {
		return
	}
	s.delivered = gen

	s.metrics.SetStats(domain.Aggregate(snapshot))

	s.listenersMu.Lock()
	listeners := append([]Listener(nil), s.listeners...)
	s.listenersMu.Unlock()

	for _, fn := range listeners {
		out := make([]domain.Asset, len(snapshot))
		for i, a := range snapshot {
			out[i] = a.Clone()
		}
		fn(out)
	}
}

// ensureLoaded performs the initial load. Caller holds s.mu.
func (s *Store) ensureLoaded(ctx context.Context, today domain.Date) error {
	if s.loaded {
		return nil
	}

	data, err := s.record.Read(ctx)
	switch {
	case errors.Is(err, storage.ErrNotExist):
		s.log.Info("no inventory record, adopting seed", logger.Int("assets", len(s.seed)))
		s.adoptSeed(ctx, today, "absent")
	case err != nil:
		s.metrics.Observe("load", "error")
		return fmt.Errorf("%w: read inventory record: %w", ErrNotReady, err)
	default:
		assets, err := decode(data)
		if err != nil {
			s.log.Warn("inventory record is malformed, adopting seed",
				logger.String("driver", s.record.Driver()),
				logger.Error(err),
			)
			s.adoptSeed(ctx, today, "malformed")
		} else {
			s.adopt(assets, today)
		}
	}

	s.loaded = true
	s.metrics.Observe("load", "ok")
	s.metrics.SetStats(domain.Aggregate(s.index.All()))
	s.log.Info("inventory loaded",
		logger.Int("assets", s.index.Count()),
		logger.String("driver", s.record.Driver()),
	)
	return nil
}

// ensureLoadedForRead loads with the store clock, for the read operations
// that take no context.
func (s *Store) ensureLoadedForRead() error {
	if s.loaded {
		return nil
	}
	if err := s.ensureLoaded(context.Background(), domain.DateOf(s.now())); err != nil {
		s.log.Error("inventory not ready", logger.Error(err))
		return err
	}
	return nil
}

// adopt replaces the collection, recomputing every status.
func (s *Store) adopt(assets []domain.Asset, today domain.Date) {
	for i := range assets {
		assets[i] = s.withRecomputedStatus(assets[i], today)
	}
	s.index.Replace(assets)
}

// adoptSeed writes and adopts the seed. A failed write is logged only:
// the seed is still served so the session stays usable.
func (s *Store) adoptSeed(ctx context.Context, today domain.Date, reason string) {
	s.metrics.SeedFallback(reason)

	assets := make([]domain.Asset, 0, len(s.seed))
	for _, a := range s.seed {
		a = a.Clone()
		if a.CreatedAt.IsZero() {
			a.CreatedAt = today
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = a.CreatedAt
		}
		assets = append(assets, s.withRecomputedStatus(a, today))
	}

	if err := s.persist(ctx, assets); err != nil {
		s.log.Error("failed to write seed", logger.Error(err))
	}
	s.index.Replace(assets)
}

// withRecomputedStatus is the only place a status is derived.
func (s *Store) withRecomputedStatus(a domain.Asset, today domain.Date) domain.Asset {
	a.Status = domain.ComputeStatus(a, today, s.policy)
	return a
}

func (s *Store) persist(ctx context.Context, assets []domain.Asset) error {
	data, err := encode(assets)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrPersist, err)
	}
	if err := s.record.Write(ctx, data); err != nil {
		s.metrics.PersistFailed()
		s.log.Warn("inventory write failed",
			logger.String("driver", s.record.Driver()),
			logger.Error(err),
		)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

func (s *Store) freshID() (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := s.newID()
		if id == "" {
			continue
		}
		if _, taken := s.index.Get(id); !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique asset id after %d attempts", maxIDAttempts)
}
