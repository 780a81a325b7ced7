package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CronJobMetrics tracks scheduled job outcomes and durations per job name.
// A nil receiver or a nil registerer turns every method into a no-op so
// tests and tools can run without a registry.
type CronJobMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	if reg == nil {
		return &CronJobMetrics{}
	}
	m := &CronJobMetrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cron_job_duration_seconds",
			Help:    "Wall-clock duration of scheduled job runs.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),
		success: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cron_job_success_total",
			Help: "Scheduled job runs that completed without error.",
		}, []string{"job"}),
		failure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cron_job_failure_total",
			Help: "Scheduled job runs that returned an error.",
		}, []string{"job"}),
	}
	reg.MustRegister(m.duration, m.success, m.failure)
	return m
}

func (c *CronJobMetrics) ObserveDuration(job string, elapsed time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(job)).Observe(elapsed.Seconds())
}

func (c *CronJobMetrics) IncSuccess(job string) {
	if c == nil || c.success == nil {
		return
	}
	c.success.WithLabelValues(normalizeLabel(job)).Inc()
}

func (c *CronJobMetrics) IncFailure(job string) {
	if c == nil || c.failure == nil {
		return
	}
	c.failure.WithLabelValues(normalizeLabel(job)).Inc()
}
