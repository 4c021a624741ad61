// Package metrics exposes Prometheus instrumentation for scheduled backup
// runs. One-shot invocations do not use it; the process exits before a
// scraper could see anything.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder records backup run metrics on its own registry. A nil Recorder
// is a no-op, so callers can pass one through unconditionally.
type Recorder struct {
	registry *prometheus.Registry

	runsTotal     *prometheus.CounterVec
	runDuration   prometheus.Histogram
	prunedTotal   prometheus.Counter
	lastSuccess   prometheus.Gauge
	snapshotBytes prometheus.Gauge
}

// NewRecorder registers the backup metrics on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "botbackup",
			Name:      "runs_total",
			Help:      "Backup runs by outcome.",
		}, []string{"status"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "botbackup",
			Name:      "run_duration_seconds",
			Help:      "Duration of backup runs.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		prunedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "botbackup",
			Name:      "pruned_files_total",
			Help:      "Snapshot files deleted by the retention sweep.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "botbackup",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful backup run.",
		}),
		snapshotBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "botbackup",
			Name:      "snapshot_size_bytes",
			Help:      "Size of the most recent snapshot.",
		}),
	}

	r.registry.MustRegister(r.runsTotal, r.runDuration, r.prunedTotal, r.lastSuccess, r.snapshotBytes)
	return r
}

// RunSucceeded records a completed run.
func (r *Recorder) RunSucceeded(duration time.Duration, sizeBytes int64, pruned int) {
	if r == nil {
		return
	}
	r.runsTotal.WithLabelValues("success").Inc()
	r.runDuration.Observe(duration.Seconds())
	r.prunedTotal.Add(float64(pruned))
	r.lastSuccess.SetToCurrentTime()
	r.snapshotBytes.Set(float64(sizeBytes))
}

// RunFailed records a failed run.
func (r *Recorder) RunFailed() {
	if r == nil {
		return
	}
	r.runsTotal.WithLabelValues("failure").Inc()
}

// Handler returns the scrape endpoint for the recorder's registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
