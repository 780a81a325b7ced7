package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SpinMetrics records wheel outcomes and reservation latency.
type SpinMetrics struct {
	outcomes *prometheus.CounterVec
	duration *prometheus.HistogramVec
	depleted *prometheus.CounterVec
}

// Outcome labels for the spin counter.
const (
	OutcomeWon      = "won"
	OutcomeLost     = "lost"
	OutcomeRejected = "rejected"
)

// NewSpinMetrics registers the spin metrics on the provided registerer.
func NewSpinMetrics(reg prometheus.Registerer) *SpinMetrics {
	if reg == nil {
		return &SpinMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spin_outcomes_total",
		Help: "Spin outcomes by agent and result.",
	}, []string{"agent", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spin_reserve_duration_seconds",
		Help:    "Duration of the inventory reservation transaction.",
		Buckets: prometheus.DefBuckets,
	}, []string{"agent"})
	depleted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spin_stock_depleted_total",
		Help: "Reservations refused because a prize was out of stock.",
	}, []string{"agent"})
	reg.MustRegister(outcomes, duration, depleted)
	return &SpinMetrics{
		outcomes: outcomes,
		duration: duration,
		depleted: depleted,
	}
}

// IncOutcome increments the outcome counter for the agent.
func (s *SpinMetrics) IncOutcome(agent, outcome string) {
	if s == nil || s.outcomes == nil {
		return
	}
	s.outcomes.WithLabelValues(normalizeLabel(agent), normalizeLabel(outcome)).Inc()
}

// ObserveReserveDuration records the reservation transaction latency.
func (s *SpinMetrics) ObserveReserveDuration(agent string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.WithLabelValues(normalizeLabel(agent)).Observe(duration.Seconds())
}

// IncStockDepleted increments the out-of-stock counter for the agent.
func (s *SpinMetrics) IncStockDepleted(agent string) {
	if s == nil || s.depleted == nil {
		return
	}
	s.depleted.WithLabelValues(normalizeLabel(agent)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
