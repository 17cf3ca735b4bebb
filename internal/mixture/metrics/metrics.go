package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the mixture engine.
type Metrics struct {
	// Computations by mode and outcome (ok, unsolvable, invalid)
	Computations *prometheus.CounterVec

	// Solver rejections by reason
	SolveFailures *prometheus.CounterVec

	ComputeLatency prometheus.Histogram

	// Result cache lookups by result (hit, miss, error)
	CacheLookups *prometheus.CounterVec

	BatchSize prometheus.Histogram
}

// New creates the mixture metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Computations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mixconc_mixture_computations_total",
			Help: "Mixture computations by mode and outcome",
		}, []string{"mode", "outcome"}),

		SolveFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mixconc_mixture_solve_failures_total",
			Help: "Two-component solve rejections by reason",
		}, []string{"reason"}),

		ComputeLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "mixconc_mixture_compute_duration_seconds",
			Help:    "Duration of a mixture computation including cache access",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mixconc_mixture_cache_lookups_total",
			Help: "Result cache lookups by result",
		}, []string{"result"}),

		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "mixconc_mixture_batch_size",
			Help:    "Number of requests per batch computation",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		}),
	}
}

// IncrementComputation records one computation outcome.
func (m *Metrics) IncrementComputation(mode, outcome string) {
	if m != nil {
		m.Computations.WithLabelValues(mode, outcome).Inc()
	}
}

// IncrementSolveFailure records a solver rejection.
func (m *Metrics) IncrementSolveFailure(reason string) {
	if m != nil {
		m.SolveFailures.WithLabelValues(reason).Inc()
	}
}

// ObserveComputeLatency records the duration of one computation.
func (m *Metrics) ObserveComputeLatency(d time.Duration) {
	if m != nil {
		m.ComputeLatency.Observe(d.Seconds())
	}
}

// IncrementCacheLookup records a cache lookup result.
func (m *Metrics) IncrementCacheLookup(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}

// ObserveBatchSize records the size of a batch request.
func (m *Metrics) ObserveBatchSize(n int) {
	if m != nil {
		m.BatchSize.Observe(float64(n))
	}
}
