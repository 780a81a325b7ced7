package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCronJobMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCronJobMetrics(reg)
	job := "low-stock-sweep"
	metrics.ObserveDuration(job, 250*time.Millisecond)
	metrics.IncSuccess(job)
	metrics.IncFailure(job)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "cron_job_success_total", "job", job); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "cron_job_failure_total", "job", job); err != nil {
		t.Fatalf("fetch failure: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "cron_job_duration_seconds", "job", job); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}
