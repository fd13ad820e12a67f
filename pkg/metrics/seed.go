package metrics

import "github.com/prometheus/client_golang/prometheus"

// StartupMetrics tracks the startup reconciliation and the degraded flag.
type StartupMetrics struct {
	seeded   prometheus.Counter
	degraded prometheus.Gauge
}

// NewStartupMetrics registers the startup metrics on the provided registerer.
func NewStartupMetrics(reg prometheus.Registerer) *StartupMetrics {
	if reg == nil {
		return &StartupMetrics{}
	}
	seeded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inventory_seed_rows_inserted_total",
		Help: "Seed products inserted into an empty products table.",
	})
	degraded := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "inventory_degraded",
		Help: "1 when startup could not prepare the database, 0 otherwise.",
	})
	reg.MustRegister(seeded, degraded)
	return &StartupMetrics{seeded: seeded, degraded: degraded}
}

func (s *StartupMetrics) AddSeeded(n int) {
	if s == nil || s.seeded == nil || n <= 0 {
		return
	}
	s.seeded.Add(float64(n))
}

func (s *StartupMetrics) SetDegraded(degraded bool) {
	if s == nil || s.degraded == nil {
		return
	}
	if degraded {
		s.degraded.Set(1)
		return
	}
	s.degraded.Set(0)
}
