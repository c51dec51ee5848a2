// Package metrics exposes Prometheus instrumentation for the refresh
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors for refresh job accounting.
type Metrics struct {
	JobsStarted   prometheus.Counter
	JobsSucceeded prometheus.Counter
	JobsFailed    prometheus.Counter
	JobsRejected  prometheus.Counter
	JobDuration   prometheus.Histogram
}

// New builds the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		JobsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "refresh_jobs_started_total",
			Help: "Number of refresh jobs accepted by the worker.",
		}),
		JobsSucceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "refresh_jobs_succeeded_total",
			Help: "Number of refresh jobs that persisted a snapshot.",
		}),
		JobsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "refresh_jobs_failed_total",
			Help: "Number of refresh jobs discarded due to an upstream or store failure.",
		}),
		JobsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "refresh_jobs_rejected_total",
			Help: "Number of refresh triggers rejected because a job was already in flight.",
		}),
		JobDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "refresh_job_duration_seconds",
			Help:    "Wall-clock duration of refresh jobs.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
	}
	reg.MustRegister(m.JobsStarted, m.JobsSucceeded, m.JobsFailed, m.JobsRejected, m.JobDuration)
	return m
}
