package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline holds the prometheus instruments for the transcription pipeline.
type Pipeline struct {
	JobsStarted        prometheus.Counter
	JobConflicts       prometheus.Counter
	ConsentRejections  prometheus.Counter
	EngineFailures     prometheus.Counter
	EngineSubmitSecs   prometheus.Histogram
	JobsCompleted      *prometheus.CounterVec
	ItemsImported      *prometheus.CounterVec
	ItemsSkipped       prometheus.Counter
	JobsScrubbed       prometheus.Counter
	JobsSwept          prometheus.Counter
	CredentialsIssued  prometheus.Counter
}

// NewPipeline registers the pipeline instruments on the given registerer.
func NewPipeline(reg prometheus.Registerer) *Pipeline {
	factory := promauto.With(reg)
	return &Pipeline{
		JobsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "meetscribe", Subsystem: "jobs", Name: "started_total",
			Help: "Transcription jobs successfully created.",
		}),
		JobConflicts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "meetscribe", Subsystem: "jobs", Name: "conflicts_total",
			Help: "Job starts rejected because a job was already active for the meeting.",
		}),
		ConsentRejections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "meetscribe", Subsystem: "jobs", Name: "consent_rejections_total",
			Help: "Job starts rejected by the consent gate.",
		}),
		EngineFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "meetscribe", Subsystem: "engine", Name: "failures_total",
			Help: "Engine submissions that failed or were rejected.",
		}),
		EngineSubmitSecs: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "meetscribe", Subsystem: "engine", Name: "submit_duration_seconds",
			Help:    "Latency of engine submissions.",
			Buckets: prometheus.DefBuckets,
		}),
		JobsCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "meetscribe", Subsystem: "jobs", Name: "completed_total",
			Help: "Jobs reaching a terminal status, by outcome.",
		}, []string{"status"}),
		ItemsImported: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "meetscribe", Subsystem: "import", Name: "items_total",
			Help: "Extraction items materialized into records, by kind.",
		}, []string{"kind"}),
		ItemsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "meetscribe", Subsystem: "import", Name: "skipped_total",
			Help: "Selected extraction items skipped during import.",
		}),
		JobsScrubbed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "meetscribe", Subsystem: "retention", Name: "scrubbed_total",
			Help: "Jobs soft-deleted with transcript content scrubbed.",
		}),
		JobsSwept: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "meetscribe", Subsystem: "retention", Name: "swept_total",
			Help: "Jobs hard-deleted by the retention sweep.",
		}),
		CredentialsIssued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "meetscribe", Subsystem: "upload", Name: "credentials_issued_total",
			Help: "Deferred-upload credentials issued.",
		}),
	}
}

// NewNopPipeline registers nothing; used by tests and CLI paths that do not
// serve metrics.
func NewNopPipeline() *Pipeline {
	return NewPipeline(prometheus.NewRegistry())
}
