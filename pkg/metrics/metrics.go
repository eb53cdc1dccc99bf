package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all engine metrics
type Metrics struct {
	// Job run metrics
	JobRunsTotal       *prometheus.CounterVec
	JobRunDuration     *prometheus.HistogramVec
	RemindersSent      *prometheus.CounterVec
	RemindersFailed    *prometheus.CounterVec
	RemindersSkipped   *prometheus.CounterVec
	JobTriggersDropped *prometheus.CounterVec

	// Channel metrics
	ChannelSends *prometheus.CounterVec
}

// NewMetrics creates and registers all engine metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		JobRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Total number of reminder job runs",
		}, []string{"job"}),
		JobRunDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_run_duration_seconds",
			Help:      "Time spent running a reminder job",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"job"}),
		RemindersSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_sent_total",
			Help:      "Total number of reminder notifications sent",
		}, []string{"job"}),
		RemindersFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_failed_total",
			Help:      "Total number of reminder notifications that failed",
		}, []string{"job"}),
		RemindersSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_skipped_total",
			Help:      "Total number of reminder notifications skipped",
		}, []string{"job"}),
		JobTriggersDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_triggers_dropped_total",
			Help:      "Scheduled triggers dropped because the previous run was still in flight",
		}, []string{"job"}),
		ChannelSends: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "channel_sends_total",
			Help:      "Channel delivery attempts by outcome",
		}, []string{"channel", "status"}),
	}
}

// New creates an unregistered metrics set, useful in tests where promauto's
// default registry would collide across cases.
func New(namespace string) *Metrics {
	return &Metrics{
		JobRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Total number of reminder job runs",
		}, []string{"job"}),
		JobRunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_run_duration_seconds",
			Help:      "Time spent running a reminder job",
		}, []string{"job"}),
		RemindersSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_sent_total",
			Help:      "Total number of reminder notifications sent",
		}, []string{"job"}),
		RemindersFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_failed_total",
			Help:      "Total number of reminder notifications that failed",
		}, []string{"job"}),
		RemindersSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_skipped_total",
			Help:      "Total number of reminder notifications skipped",
		}, []string{"job"}),
		JobTriggersDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_triggers_dropped_total",
			Help:      "Scheduled triggers dropped because the previous run was still in flight",
		}, []string{"job"}),
		ChannelSends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "channel_sends_total",
			Help:      "Channel delivery attempts by outcome",
		}, []string{"channel", "status"}),
	}
}
