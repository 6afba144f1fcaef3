package inventory

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/hwtrack/internal/domain"
	"github.com/MrSnakeDoc/hwtrack/internal/metrics"
	"github.com/MrSnakeDoc/hwtrack/internal/storage"
)

var (
	now   = time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)
	today = domain.DateOf(now)
	ctx   = context.Background()
)

// flakyRecord wraps an in-memory record and fails on demand.
type flakyRecord struct {
	*storage.Memory

	mu        sync.Mutex
	failRead  error
	failWrite error
	writes    int
}

func newFlakyRecord() *flakyRecord {
	return &flakyRecord{Memory: storage.NewMemory()}
}

func (r *flakyRecord) Read(ctx context.Context) ([]byte, error) {
	r.mu.Lock()
	err := r.failRead
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.Memory.Read(ctx)
}

func (r *flakyRecord) Write(ctx context.Context, data []byte) error {
	r.mu.Lock()
	err := r.failWrite
	if err == nil {
		r.writes++
	}
	r.mu.Unlock()
	if err != nil {
		return err
	}
	return r.Memory.Write(ctx, data)
}

func (r *flakyRecord) setFailWrite(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failWrite = err
}

func (r *flakyRecord) setFailRead(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failRead = err
}

func (r *flakyRecord) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("asset-%d", n)
	}
}

func newTestStore(record storage.Record, seed []domain.Asset) *Store {
	return New(record, Options{
		Policy: domain.DefaultPolicy(),
		Seed:   seed,
		NewID:  sequentialIDs(),
		Now:    func() time.Time { return now },
	})
}

// input builds a valid AssetInput whose dates put it far from any threshold.
func input(name string) domain.AssetInput {
	return domain.AssetInput{
		Name:           name,
		Vendor:         "Acme",
		Model:          "X1",
		SerialNumber:   "SN-" + name,
		Category:       domain.CategoryServer,
		PurchaseDate:   today.AddYears(-1),
		EndOfLife:      today.AddYears(4),
		WarrantyExpiry: today.AddYears(2),
	}
}

func seedAsset(id string) domain.Asset {
	in := input("seed-" + id)
	a := in.ToAsset()
	a.ID = id
	return a
}

func ids(assets []domain.Asset) []string {
	out := make([]string, 0, len(assets))
	for _, a := range assets {
		out = append(out, a.ID)
	}
	return out
}

func persisted(t *testing.T, r storage.Record) []domain.Asset {
	t.Helper()
	data, err := r.Read(ctx)
	if err != nil {
		t.Fatalf("record Read() error = %v", err)
	}
	assets, err := decode(data)
	if err != nil {
		t.Fatalf("decode persisted record: %v", err)
	}
	return assets
}

func TestLoadAbsentRecordWritesSeed(t *testing.T) {
	record := newFlakyRecord()
	store := newTestStore(record, []domain.Asset{seedAsset("s1"), seedAsset("s2")})

	if store.Ready() {
		t.Error("Ready() before Load() should be false")
	}
	assets, ready := store.Load(ctx, now)
	if !ready {
		t.Fatal("Load() ready = false")
	}
	if got := ids(assets); !reflect.DeepEqual(got, []string{"s1", "s2"}) {
		t.Errorf("Load() ids = %v, want [s1 s2]", got)
	}
	for _, a := range assets {
		if a.Status != domain.StatusHealthy {
			t.Errorf("seed asset %s status = %q, want healthy", a.ID, a.Status)
		}
		if a.CreatedAt != today {
			t.Errorf("seed asset %s createdAt = %v, want today", a.ID, a.CreatedAt)
		}
	}
	if got := ids(persisted(t, record)); !reflect.DeepEqual(got, []string{"s1", "s2"}) {
		t.Errorf("persisted ids = %v, want seed", got)
	}

	// second Load is memoized
	record.setFailRead(errors.New("must not be read again"))
	if _, ready := store.Load(ctx, now); !ready {
		t.Error("second Load() should not re-read the record")
	}
}

func TestLoadMalformedRecordFallsBackToSeed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "{{{"},
		{"null", "null"},
		{"object", `{"id":"1"}`},
		{"bad date", `[{"id":"1","purchaseDate":"15/06/2023"}]`},
		{"missing id", `[{"name":"x"}]`},
		{"duplicate id", `[{"id":"1"},{"id":"1"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.New()
			record := storage.NewMemoryWith([]byte(tt.payload))
			store := New(record, Options{
				Policy:  domain.DefaultPolicy(),
				Seed:    []domain.Asset{seedAsset("seed")},
				Metrics: m,
			})

			assets, ready := store.Load(ctx, now)
			if !ready {
				t.Fatal("malformed record must not make Load() fail")
			}
			if got := ids(assets); !reflect.DeepEqual(got, []string{"seed"}) {
				t.Errorf("Load() ids = %v, want [seed]", got)
			}
			if got := ids(persisted(t, record)); !reflect.DeepEqual(got, []string{"seed"}) {
				t.Errorf("seed should replace the malformed record, got %v", got)
			}
		})
	}
}

func TestLoadRecomputesStaleStatus(t *testing.T) {
	expired := seedAsset("old")
	expired.WarrantyExpiry = today.AddDays(-1)
	expired.Status = domain.StatusHealthy // stale

	fine := seedAsset("fine")
	fine.Status = domain.StatusCritical // stale

	data, err := encode([]domain.Asset{expired, fine})
	if err != nil {
		t.Fatalf("encode() error = %v", err)
	}
	store := newTestStore(storage.NewMemoryWith(data), nil)

	assets, _ := store.Load(ctx, now)
	if assets[0].Status != domain.StatusCritical {
		t.Errorf("expired asset status = %q, want critical", assets[0].Status)
	}
	if assets[1].Status != domain.StatusHealthy {
		t.Errorf("fine asset status = %q, want healthy", assets[1].Status)
	}
}

func TestLoadOlderRecordDefaults(t *testing.T) {
	payload := `[{"id":"legacy","name":"Old switch","vendor":"Cisco","model":"2960","serialNumber":"S1",
		"purchaseDate":"2020-01-01","endOfLife":"2030-01-01","warrantyExpiry":"2028-01-01",
		"maintenanceContract":{"hasContract":false},"professionalSupport":{"hasSupport":false},
		"status":"healthy","createdAt":"2020-01-01","updatedAt":"2020-01-01"}]`
	store := newTestStore(storage.NewMemoryWith([]byte(payload)), nil)

	a, err := store.Get("legacy")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if a.Category != domain.CategoryOther {
		t.Errorf("Category = %q, want other", a.Category)
	}
	if a.Documents == nil {
		t.Error("Documents should default to an empty map")
	}
}

func TestLoadUnreadableRecordIsRetried(t *testing.T) {
	record := newFlakyRecord()
	record.setFailRead(errors.New("connection refused"))
	store := newTestStore(record, []domain.Asset{seedAsset("s1")})

	if _, ready := store.Load(ctx, now); ready {
		t.Fatal("Load() ready = true with an unreadable record")
	}
	if record.writeCount() != 0 {
		t.Error("an unreadable record must not be overwritten by the seed")
	}
	if _, err := store.Create(ctx, input("n"), now); !errors.Is(err, ErrNotReady) {
		t.Errorf("Create() error = %v, want ErrNotReady", err)
	}
	if _, err := store.Get("s1"); !errors.Is(err, ErrNotReady) {
		t.Errorf("Get() error = %v, want ErrNotReady", err)
	}

	record.setFailRead(nil)
	assets, ready := store.Load(ctx, now)
	if !ready || len(assets) != 1 {
		t.Errorf("Load() after recovery = %v, %v", ids(assets), ready)
	}
}

func TestCreate(t *testing.T) {
	store := newTestStore(storage.NewMemory(), nil)

	cost := 1200.0
	in := input("Test")
	in.UnitCost = &cost
	in.Documents = map[domain.DocumentKind]string{domain.DocumentInvoice: "inv-1"}

	a, err := store.Create(ctx, in, now)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if a.ID != "asset-1" {
		t.Errorf("ID = %q, want asset-1", a.ID)
	}
	if a.CreatedAt != today || a.UpdatedAt != today {
		t.Errorf("timestamps = %v/%v, want today", a.CreatedAt, a.UpdatedAt)
	}
	if a.Status != domain.StatusHealthy {
		t.Errorf("Status = %q, want healthy", a.Status)
	}

	// the caller's input is not aliased
	cost = -1
	in.Documents[domain.DocumentInvoice] = "changed"
	got, _ := store.Get(a.ID)
	if *got.UnitCost != 1200 || got.Documents[domain.DocumentInvoice] != "inv-1" {
		t.Errorf("stored asset shares memory with the input: %+v", got)
	}
}

func TestCreateThenLoadRoundTrip(t *testing.T) {
	record := storage.NewMemory()
	store := newTestStore(record, nil)

	in := input("Round")
	in.MaintenanceContract = domain.MaintenanceContract{
		HasContract: true,
		ExpiryDate:  today.AddDays(20),
		Provider:    "Acme Care",
	}
	created, err := store.Create(ctx, in, now)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Status != domain.StatusWarning {
		t.Fatalf("Status = %q, want warning", created.Status)
	}

	// a fresh session on the same record sees the identical asset
	reopened := newTestStore(record, nil)
	assets, ready := reopened.Load(ctx, now)
	if !ready || len(assets) != 1 {
		t.Fatalf("Load() = %d assets, ready %v", len(assets), ready)
	}
	if !reflect.DeepEqual(assets[0], created) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", assets[0], created)
	}
}

func TestCreateValidation(t *testing.T) {
	negative := -5.0
	tests := []struct {
		name   string
		mutate func(*domain.AssetInput)
		opts   func(*Options)
	}{
		{name: "missing name", mutate: func(in *domain.AssetInput) { in.Name = "  " }},
		{name: "missing warranty", mutate: func(in *domain.AssetInput) { in.WarrantyExpiry = domain.Date{} }},
		{name: "negative cost", mutate: func(in *domain.AssetInput) { in.UnitCost = &negative }},
		{
			name:   "unit cost required",
			mutate: func(in *domain.AssetInput) {},
			opts:   func(o *Options) { o.RequireUnitCost = true },
		},
		{
			name: "unknown document kind",
			mutate: func(in *domain.AssetInput) {
				in.Documents = map[domain.DocumentKind]string{domain.DocumentInvoice: "inv-1", "manual": "m-1"}
			},
		},
		{
			name:   "category not allowed",
			mutate: func(in *domain.AssetInput) { in.Category = "toaster" },
			opts:   func(o *Options) { o.Categories = domain.DefaultCategories },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := newFlakyRecord()
			opts := Options{Policy: domain.DefaultPolicy()}
			if tt.opts != nil {
				tt.opts(&opts)
			}
			store := New(record, opts)
			store.Load(ctx, now)
			writes := record.writeCount()

			in := input("v")
			tt.mutate(&in)
			if _, err := store.Create(ctx, in, now); !errors.Is(err, ErrValidation) {
				t.Fatalf("Create() error = %v, want ErrValidation", err)
			}
			if record.writeCount() != writes {
				t.Error("a rejected create must not write")
			}
			if n := len(store.Query(domain.Filter{})); n != 0 {
				t.Errorf("collection has %d assets after a rejected create", n)
			}
		})
	}
}

func TestCreateRetriesTakenID(t *testing.T) {
	calls := 0
	store := New(storage.NewMemory(), Options{
		Policy: domain.DefaultPolicy(),
		Seed:   []domain.Asset{seedAsset("dup")},
		NewID: func() string {
			calls++
			if calls == 1 {
				return "dup"
			}
			return "fresh"
		},
	})

	a, err := store.Create(ctx, input("x"), now)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if a.ID != "fresh" {
		t.Errorf("ID = %q, want fresh", a.ID)
	}

	store = New(storage.NewMemory(), Options{
		Seed:  []domain.Asset{seedAsset("dup")},
		NewID: func() string { return "dup" },
	})
	if _, err := store.Create(ctx, input("x"), now); err == nil {
		t.Error("Create() should give up when every id is taken")
	}
}

func TestUpdate(t *testing.T) {
	store := newTestStore(storage.NewMemory(), nil)
	created, err := store.Create(ctx, input("Test"), now.AddDate(0, 0, -10))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	expired := today.AddDays(-1)
	notes := "moved to rack 4"
	updated, err := store.Update(ctx, created.ID, domain.AssetPatch{
		WarrantyExpiry: &expired,
		Notes:          &notes,
	}, now)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Status != domain.StatusCritical {
		t.Errorf("Status = %q, want critical", updated.Status)
	}
	if updated.CreatedAt != created.CreatedAt {
		t.Errorf("CreatedAt changed: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}
	if updated.UpdatedAt != today {
		t.Errorf("UpdatedAt = %v, want today", updated.UpdatedAt)
	}
	if updated.Name != "Test" || updated.Notes != notes {
		t.Errorf("merge lost fields: %+v", updated)
	}

	got, _ := store.Get(created.ID)
	if !reflect.DeepEqual(got, updated) {
		t.Errorf("Get() = %+v, want the returned asset", got)
	}
}

func TestUpdateNotFound(t *testing.T) {
	record := newFlakyRecord()
	store := newTestStore(record, []domain.Asset{seedAsset("s1")})
	before, _ := store.Load(ctx, now)
	writes := record.writeCount()

	name := "ghost"
	_, err := store.Update(ctx, "missing", domain.AssetPatch{Name: &name}, now)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update() error = %v, want ErrNotFound", err)
	}
	if record.writeCount() != writes {
		t.Error("Update() of an unknown id must not write")
	}
	if after := store.Query(domain.Filter{}); !reflect.DeepEqual(after, before) {
		t.Errorf("collection changed: %v -> %v", ids(before), ids(after))
	}
}

func TestUpdateRejectsInvalidMerge(t *testing.T) {
	store := newTestStore(storage.NewMemory(), nil)
	created, _ := store.Create(ctx, input("Test"), now)

	empty := ""
	if _, err := store.Update(ctx, created.ID, domain.AssetPatch{Vendor: &empty}, now); !errors.Is(err, ErrValidation) {
		t.Fatalf("Update() error = %v, want ErrValidation", err)
	}
	got, _ := store.Get(created.ID)
	if got.Vendor != "Acme" {
		t.Errorf("Vendor = %q after a rejected update", got.Vendor)
	}
}

func TestDelete(t *testing.T) {
	record := newFlakyRecord()
	store := newTestStore(record, []domain.Asset{seedAsset("a"), seedAsset("b"), seedAsset("c")})
	store.Load(ctx, now)

	if err := store.Delete(ctx, "b", now); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got := ids(store.Query(domain.Filter{})); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("ids after delete = %v, want [a c]", got)
	}
	if got := ids(persisted(t, record)); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("persisted ids = %v, want [a c]", got)
	}

	writes := record.writeCount()
	for i := 0; i < 2; i++ {
		if err := store.Delete(ctx, "b", now); err != nil {
			t.Errorf("Delete() of a missing id error = %v", err)
		}
	}
	if record.writeCount() != writes {
		t.Error("Delete() of a missing id must not write")
	}
	if got := ids(store.Query(domain.Filter{})); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("ids after no-op delete = %v", got)
	}
}

func TestWriteFailureRollsBack(t *testing.T) {
	record := newFlakyRecord()
	store := newTestStore(record, []domain.Asset{seedAsset("a"), seedAsset("b")})
	before, _ := store.Load(ctx, now)
	stored := persisted(t, record)

	quota := errors.New("quota exceeded")
	record.setFailWrite(quota)

	if _, err := store.Create(ctx, input("new"), now); !errors.Is(err, ErrPersist) || !errors.Is(err, quota) {
		t.Errorf("Create() error = %v, want ErrPersist wrapping the write error", err)
	}
	name := "renamed"
	if _, err := store.Update(ctx, "a", domain.AssetPatch{Name: &name}, now); !errors.Is(err, ErrPersist) {
		t.Errorf("Update() error = %v, want ErrPersist", err)
	}
	if err := store.Delete(ctx, "b", now); !errors.Is(err, ErrPersist) {
		t.Errorf("Delete() error = %v, want ErrPersist", err)
	}

	if after := store.Query(domain.Filter{}); !reflect.DeepEqual(after, before) {
		t.Errorf("in-memory collection diverged after failed writes: %v", ids(after))
	}
	if got := persisted(t, record); !reflect.DeepEqual(got, stored) {
		t.Error("durable record changed despite failed writes")
	}
}

func TestSeedWriteFailureStillServesSeed(t *testing.T) {
	record := newFlakyRecord()
	record.setFailWrite(errors.New("read-only filesystem"))
	store := newTestStore(record, []domain.Asset{seedAsset("s1")})

	assets, ready := store.Load(ctx, now)
	if !ready || len(assets) != 1 {
		t.Errorf("Load() = %v, %v; want the seed", ids(assets), ready)
	}
}

func TestQuery(t *testing.T) {
	store := newTestStore(storage.NewMemory(), nil)

	mk := func(name, vendor string, cat domain.Category, warranty domain.Date) {
		t.Helper()
		in := input(name)
		in.Vendor = vendor
		in.Category = cat
		in.WarrantyExpiry = warranty
		if _, err := store.Create(ctx, in, now); err != nil {
			t.Fatalf("Create(%s) error = %v", name, err)
		}
	}
	// asset-1..5: healthy, warning, critical, healthy, critical
	mk("core-sw", "Cisco", domain.CategoryNetwork, today.AddYears(2))
	mk("edge-sw", "Cisco", domain.CategoryNetwork, today.AddDays(5))
	mk("db-01", "Dell", domain.CategoryServer, today.AddDays(-3))
	mk("ntp-01", "Meinberg", domain.CategoryNTP, today.AddYears(2))
	mk("fw-01", "Cisco", domain.CategoryNetwork, today.AddDays(-30))

	tests := []struct {
		name   string
		filter domain.Filter
		want   []string
	}{
		{"no filter keeps order", domain.Filter{}, []string{"asset-1", "asset-2", "asset-3", "asset-4", "asset-5"}},
		{"status", domain.Filter{Status: domain.StatusCritical}, []string{"asset-3", "asset-5"}},
		{"category", domain.Filter{Category: domain.CategoryNetwork}, []string{"asset-1", "asset-2", "asset-5"}},
		{"search is case-insensitive", domain.Filter{Search: "cIsCo"}, []string{"asset-1", "asset-2", "asset-5"}},
		{"search serial", domain.Filter{Search: "sn-ntp"}, []string{"asset-4"}},
		{
			"combined is the intersection",
			domain.Filter{Status: domain.StatusCritical, Category: domain.CategoryNetwork, Search: "cisco"},
			[]string{"asset-5"},
		},
		{"no match", domain.Filter{Search: "juniper"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(store.Query(tt.filter)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Query() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreateThenSearch(t *testing.T) {
	store := newTestStore(storage.NewMemory(), nil)
	in := input("Test")
	in.Vendor = "Acme"
	created, err := store.Create(ctx, in, now)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got := store.Query(domain.Filter{Search: "aCm"})
	if len(got) != 1 || got[0].ID != created.ID {
		t.Errorf("Query(aCm) = %v, want [%s]", ids(got), created.ID)
	}
}

func TestAggregateAfterCreates(t *testing.T) {
	store := newTestStore(storage.NewMemory(), nil)

	healthy := input("healthy")
	healthy.MaintenanceContract = domain.MaintenanceContract{HasContract: true, ExpiryDate: today.AddYears(1)}
	warning := input("warning")
	warning.WarrantyExpiry = today.AddDays(10)
	warning.ProfessionalSupport = domain.ProfessionalSupport{HasSupport: true}
	critical := input("critical")
	critical.EndOfLife = today.AddDays(-1)

	for _, in := range []domain.AssetInput{healthy, warning, critical} {
		if _, err := store.Create(ctx, in, now); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	want := domain.Stats{Total: 3, Healthy: 1, Warning: 1, Critical: 1, WithMaintenance: 1, WithSupport: 1}
	if got := store.Aggregate(); got != want {
		t.Errorf("Aggregate() = %+v, want %+v", got, want)
	}

	_ = store.Delete(ctx, "asset-3", now)
	if got := store.Aggregate(); got.Total != 2 || got.Critical != 0 {
		t.Errorf("Aggregate() after delete = %+v", got)
	}
}

func TestOperationsLoadImplicitly(t *testing.T) {
	store := newTestStore(storage.NewMemory(), []domain.Asset{seedAsset("s1")})

	if got := store.Aggregate().Total; got != 1 {
		t.Errorf("Aggregate() before Load() total = %d, want 1", got)
	}
	if !store.Ready() {
		t.Error("Ready() should be true after an implicit load")
	}
}

func TestReload(t *testing.T) {
	record := storage.NewMemory()
	store := newTestStore(record, []domain.Asset{seedAsset("s1")})
	store.Load(ctx, now)

	// another process rewrote the record
	data, _ := encode([]domain.Asset{seedAsset("x"), seedAsset("y")})
	if err := record.Write(ctx, data); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if got := ids(store.Query(domain.Filter{})); !reflect.DeepEqual(got, []string{"s1"}) {
		t.Errorf("Query() before Reload() = %v, want memoized [s1]", got)
	}

	assets, err := store.Reload(ctx, now)
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if got := ids(assets); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Errorf("Reload() = %v, want [x y]", got)
	}

	if err := record.Write(ctx, []byte("garbage")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := store.Reload(ctx, now); !errors.Is(err, ErrMalformedState) {
		t.Errorf("Reload() error = %v, want ErrMalformedState", err)
	}
	if got := ids(store.Query(domain.Filter{})); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Errorf("failed Reload() changed the collection: %v", got)
	}
}

func TestSubscribe(t *testing.T) {
	store := newTestStore(storage.NewMemory(), nil)

	var (
		mu        sync.Mutex
		snapshots [][]string
	)
	store.Subscribe(func(assets []domain.Asset) {
		mu.Lock()
		defer mu.Unlock()
		snapshots = append(snapshots, ids(assets))
		// listeners may call back into the store
		_ = store.Aggregate()
	})

	a, _ := store.Create(ctx, input("one"), now)
	name := "renamed"
	_, _ = store.Update(ctx, a.ID, domain.AssetPatch{Name: &name}, now)
	_ = store.Delete(ctx, a.ID, now)
	_ = store.Delete(ctx, a.ID, now) // no-op, no notification

	want := [][]string{{"asset-1"}, {"asset-1"}, {}}
	mu.Lock()
	defer mu.Unlock()
	if !reflect.DeepEqual(snapshots, want) {
		t.Errorf("notifications = %v, want %v", snapshots, want)
	}
}

func TestConcurrentCreates(t *testing.T) {
	record := storage.NewMemory()
	store := New(record, Options{Policy: domain.DefaultPolicy()})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := store.Create(ctx, input(fmt.Sprintf("n%d", i)), now); err != nil {
				t.Errorf("Create() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	if got := store.Aggregate().Total; got != 50 {
		t.Errorf("Total = %d, want 50", got)
	}
	if got := len(persisted(t, record)); got != 50 {
		t.Errorf("persisted %d assets, want 50", got)
	}
}

func TestConcurrentCreatesDeliverLatestSnapshot(t *testing.T) {
	for round := 0; round < 50; round++ {
		m := metrics.New()
		store := New(storage.NewMemory(), Options{Policy: domain.DefaultPolicy(), Metrics: m})

		var (
			mu   sync.Mutex
			last []string
		)
		store.Subscribe(func(assets []domain.Asset) {
			mu.Lock()
			defer mu.Unlock()
			if len(assets) < len(last) {
				t.Errorf("round %d: snapshot of %d assets delivered after one of %d", round, len(assets), len(last))
			}
			last = ids(assets)
		})

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if _, err := store.Create(ctx, input(fmt.Sprintf("r%d-%d", round, i)), now); err != nil {
					t.Errorf("Create() error = %v", err)
				}
			}(i)
		}
		wg.Wait()

		want := ids(store.Query(domain.Filter{}))
		mu.Lock()
		got := last
		mu.Unlock()
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("round %d: last delivered snapshot = %v, want %v", round, got, want)
		}
	}
}
