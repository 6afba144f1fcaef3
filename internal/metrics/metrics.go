package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrSnakeDoc/hwtrack/internal/domain"
)

// Metrics groups the inventory collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry prometheus.Gatherer

	Operations      *prometheus.CounterVec
	PersistFailures prometheus.Counter
	SeedFallbacks   *prometheus.CounterVec
	Assets          *prometheus.GaugeVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	return NewWith(reg, reg)
}

// NewWith registers the collectors on reg and serves them from gatherer.
func NewWith(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		registry: gatherer,
		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hwtrack_store_operations_total",
				Help: "Inventory store operations, by operation and outcome",
			},
			[]string{"operation", "outcome"}, // outcome is ok/not_found/invalid/error
		),
		PersistFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "hwtrack_persist_failures_total",
				Help: "Writes of the inventory record that failed and were rolled back",
			},
		),
		SeedFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hwtrack_seed_fallbacks_total",
				Help: "Loads that adopted the seed collection, by reason",
			},
			[]string{"reason"}, // absent/malformed
		),
		Assets: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "hwtrack_assets",
				Help: "Assets currently tracked, by derived status",
			},
			[]string{"status"},
		),
	}
}

// Observe counts one store operation.
func (m *Metrics) Observe(operation, outcome string) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(operation, outcome).Inc()
}

// PersistFailed counts a rolled back write.
func (m *Metrics) PersistFailed() {
	if m == nil {
		return
	}
	m.PersistFailures.Inc()
}

// SeedFallback counts a load that fell back to the seed.
func (m *Metrics) SeedFallback(reason string) {
	if m == nil {
		return
	}
	m.SeedFallbacks.WithLabelValues(reason).Inc()
}

// SetStats publishes the current status distribution.
func (m *Metrics) SetStats(s domain.Stats) {
	if m == nil {
		return
	}
	m.Assets.WithLabelValues(string(domain.StatusHealthy)).Set(float64(s.Healthy))
	m.Assets.WithLabelValues(string(domain.StatusWarning)).Set(float64(s.Warning))
	m.Assets.WithLabelValues(string(domain.StatusCritical)).Set(float64(s.Critical))
}

// Handler exposes the collectors in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
