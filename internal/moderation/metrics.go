package moderation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DecisionsTotal counts verdicts by pipeline path and decision.
	DecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_decisions_total",
			Help: "Moderation verdicts by path (new_post, reanalysis) and decision",
		},
		[]string{"path", "decision"},
	)

	// ClassifierFailures counts fallbacks taken because the classifier failed.
	ClassifierFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_classifier_failures_total",
			Help: "Classifier failures by path; each one is a fail-open or fail-preserve",
		},
		[]string{"path"},
	)

	// ClassifierLatency tracks round-trip time to the classification service.
	ClassifierLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moderation_classifier_seconds",
			Help:    "Classifier call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	// ReanalysesTotal counts threshold-triggered reanalyses.
	ReanalysesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moderation_reanalyses_total",
			Help: "Report-threshold reanalyses started",
		},
	)

	// LearningEntriesTotal counts learning rows by outcome (stored, failed).
	LearningEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_learning_entries_total",
			Help: "Learning log appends by outcome",
		},
		[]string{"outcome"},
	)
)

const (
	pathNewPost    = "new_post"
	pathReanalysis = "reanalysis"
)
