// Package jobmetrics instruments background job runs.
package jobmetrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors shared by every background job.
type Metrics struct {
	runs        *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	processed   *prometheus.CounterVec
	lastSuccess *prometheus.GaugeVec
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// NewMetrics registers the job collectors. A nil registerer means the process-wide
// default registerer, registered at most once.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		defaultOnce.Do(func() {
			defaultMetrics = register(prometheus.DefaultRegisterer)
		})
		return defaultMetrics
	}
	return register(registerer)
}

func register(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_jobs_total",
			Help: "Job executions by job name and status.",
		}, []string{"job", "status"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_jobs_failures_total",
			Help: "Failed job executions.",
		}, []string{"job"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pos_job_duration_seconds",
			Help:    "Job execution time.",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
		}, []string{"job"}),
		processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_job_items_processed_total",
			Help: "Items handled by jobs, such as warmed cache entries or removed keys.",
		}, []string{"job"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pos_job_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run.",
		}, []string{"job"}),
	}
	registerer.MustRegister(m.runs, m.failures, m.duration, m.processed, m.lastSuccess)
	return m
}

// Run instruments a single job execution. The zero value and a Run from nil Metrics are no-ops.
type Run struct {
	metrics   *Metrics
	job       string
	start     time.Time
	processed int
}

// Track starts a Run for job.
func (m *Metrics) Track(job string) *Run {
	return &Run{metrics: m, job: job, start: time.Now()}
}

// Processed adds n handled items to the run.
func (r *Run) Processed(n int) {
	if r != nil && n > 0 {
		r.processed += n
	}
}

// End records the outcome of the run and returns err unchanged.
func (r *Run) End(err error) error {
	if r == nil || r.metrics == nil || r.job == "" {
		return err
	}
	m := r.metrics
	status := "success"
	if err != nil {
		status = "failure"
		m.failures.WithLabelValues(r.job).Inc()
	} else {
		m.lastSuccess.WithLabelValues(r.job).SetToCurrentTime()
	}
	m.runs.WithLabelValues(r.job, status).Inc()
	m.duration.WithLabelValues(r.job).Observe(time.Since(r.start).Seconds())
	if r.processed > 0 {
		m.processed.WithLabelValues(r.job).Add(float64(r.processed))
	}
	return err
}
