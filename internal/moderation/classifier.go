package moderation

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ualiu/neighbours-only/internal/models"
)

// FailOpenReason is the reason stored when a new post is allowed because
// the classifier could not answer.
const FailOpenReason = "service unavailable"

// FailPreserveReason is the reason reported when a reanalysis could not run.
const FailPreserveReason = "reanalysis failed, maintaining original decision"

type UserContext struct {
	PostFrequency   int
	AccountAgeDays  float64
	AddressVerified bool
}

type ClassifyRequest struct {
	Text          string
	ImageRef      *string
	User          UserContext
	Business      models.BusinessDetection
	ProfanityHits int
}

type ReanalyzeRequest struct {
	PostText string
	Original Verdict
	Reports  []models.Report
}

// Classifier is the external text-classification capability.
type Classifier interface {
	Classify(ctx context.Context, req ClassifyRequest) (Verdict, error)
	Reanalyze(ctx context.Context, req ReanalyzeRequest) (ReanalysisVerdict, error)
}

// DisabledClassifier is the kill-switch strategy: every post is approved and
// reanalysis never changes a verdict.
type DisabledClassifier struct{}

var _ Classifier = DisabledClassifier{}

func (DisabledClassifier) Classify(_ context.Context, req ClassifyRequest) (Verdict, error) {
	return Verdict{
		Lane:              models.LaneGreen,
		Decision:          models.DecisionAllow,
		Confidence:        100,
		Reason:            "moderation disabled",
		Categories:        []string{},
		BusinessDetection: req.Business,
	}, nil
}

func (DisabledClassifier) Reanalyze(_ context.Context, req ReanalyzeRequest) (ReanalysisVerdict, error) {
	return ReanalysisVerdict{
		Lane:        req.Original.Lane,
		Decision:    req.Original.Decision,
		Confidence:  req.Original.Confidence,
		Reason:      req.Original.Reason,
		Categories:  req.Original.Categories,
		ActionTaken: "moderation disabled",
	}, nil
}

// ClassifyOrFailOpen runs the classifier under timeout and falls back to an
// allow verdict on any failure. It never returns an error.
func ClassifyOrFailOpen(ctx context.Context, log *zap.Logger, c Classifier, timeout time.Duration, req ClassifyRequest) Verdict {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	v, err := c.Classify(ctx, req)
	ClassifierLatency.WithLabelValues(pathNewPost).Observe(time.Since(start).Seconds())
	if err != nil {
		ClassifierFailures.WithLabelValues(pathNewPost).Inc()
		log.Warn("classifier failed, failing open", zap.Error(err))
		v = Verdict{
			Lane:              models.LaneGreen,
			Decision:          models.DecisionAllow,
			Confidence:        0,
			Reason:            FailOpenReason,
			Categories:        []string{},
			Failed:            true,
			BusinessDetection: req.Business,
		}
	}
	DecisionsTotal.WithLabelValues(pathNewPost, string(v.Decision)).Inc()
	return v
}

// ReanalyzeOrPreserve runs a reanalysis under timeout. On failure it returns
// the original verdict unchanged with Failed set.
func ReanalyzeOrPreserve(ctx context.Context, log *zap.Logger, c Classifier, timeout time.Duration, req ReanalyzeRequest) ReanalysisVerdict {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	v, err := c.Reanalyze(ctx, req)
	ClassifierLatency.WithLabelValues(pathReanalysis).Observe(time.Since(start).Seconds())
	if err != nil {
		ClassifierFailures.WithLabelValues(pathReanalysis).Inc()
		log.Warn("reanalysis failed, preserving original verdict", zap.Error(err))
		return ReanalysisVerdict{
			Lane:       req.Original.Lane,
			Decision:   req.Original.Decision,
			Confidence: req.Original.Confidence,
			Reason:     FailPreserveReason,
			Categories: req.Original.Categories,
			Failed:     true,
		}
	}
	DecisionsTotal.WithLabelValues(pathReanalysis, string(v.Decision)).Inc()
	return v
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
