// Package metrics provides Prometheus-based metrics recording for the
// generation workflow.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder collects counters and histograms for upstream traffic and the
// generation lifecycle.
type Recorder struct {
	upstreamDuration *prometheus.HistogramVec
	taskSubmissions  *prometheus.CounterVec
	pollTicks        *prometheus.CounterVec
	generations      *prometheus.CounterVec
	uploads          *prometheus.CounterVec
	activeSessions   prometheus.Gauge
}

// NewRecorder creates and registers the metric set on the default
// registry. Call it once per process.
func NewRecorder() *Recorder {
	return &Recorder{
		upstreamDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "upstream_request_duration_seconds",
				Help:    "Duration of requests to the generation service",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "status"},
		),
		taskSubmissions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "generation_task_submissions_total",
				Help: "Total generation task submissions by outcome",
			},
			[]string{"outcome"},
		),
		pollTicks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "generation_poll_ticks_total",
				Help: "Total task status queries by result",
			},
			[]string{"result"},
		),
		generations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "generations_total",
				Help: "Total generation runs by terminal status",
			},
			[]string{"status"},
		),
		uploads: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "document_uploads_total",
				Help: "Total document uploads by outcome",
			},
			[]string{"outcome"},
		),
		activeSessions: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "wizard_sessions_active",
				Help: "Number of live wizard sessions",
			},
		),
	}
}

// ObserveUpstream records one upstream request.
func (r *Recorder) ObserveUpstream(operation, status string, duration time.Duration) {
	r.upstreamDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// RecordSubmission counts a task submission attempt.
func (r *Recorder) RecordSubmission(outcome string) {
	r.taskSubmissions.WithLabelValues(outcome).Inc()
}

// RecordPollTick counts one status query result
// (pending, complete, error, transport_error).
func (r *Recorder) RecordPollTick(result string) {
	r.pollTicks.WithLabelValues(result).Inc()
}

// RecordGeneration counts a terminal generation outcome.
func (r *Recorder) RecordGeneration(status string) {
	r.generations.WithLabelValues(status).Inc()
}

// RecordUpload counts an upload attempt (accepted, rejected, failed).
func (r *Recorder) RecordUpload(outcome string) {
	r.uploads.WithLabelValues(outcome).Inc()
}

// SetActiveSessions updates the live session gauge.
func (r *Recorder) SetActiveSessions(n int) {
	r.activeSessions.Set(float64(n))
}
