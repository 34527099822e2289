package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records submission pipeline outcomes.
type PipelineMetrics struct {
	submissions    *prometheus.CounterVec
	uploadDuration *prometheus.HistogramVec
	notifyFailures prometheus.Counter
}

// NewPipelineMetrics registers the pipeline metrics on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "submissions_total",
		Help: "Submission pipeline runs by kind and outcome.",
	}, []string{"kind", "outcome"})
	uploadDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "video_upload_duration_seconds",
		Help:    "Duration of object-store video uploads in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	notifyFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notification_failures_total",
		Help: "Confirmation emails that failed to send.",
	})
	reg.MustRegister(submissions, uploadDuration, notifyFailures)
	return &PipelineMetrics{
		submissions:    submissions,
		uploadDuration: uploadDuration,
		notifyFailures: notifyFailures,
	}
}

// ObserveSubmission counts one pipeline run.
func (m *PipelineMetrics) ObserveSubmission(kind, outcome string) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(kind, outcome).Inc()
}

// ObserveUpload records the duration of one object-store upload.
func (m *PipelineMetrics) ObserveUpload(kind string, elapsed time.Duration) {
	if m == nil || m.uploadDuration == nil {
		return
	}
	m.uploadDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// ObserveNotifyFailure counts one failed email dispatch.
func (m *PipelineMetrics) ObserveNotifyFailure() {
	if m == nil || m.notifyFailures == nil {
		return
	}
	m.notifyFailures.Inc()
}
