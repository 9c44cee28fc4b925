package moderation

import (
	"context"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/ualiu/neighbours-only/internal/models"
)

// ReportContext is the evidence a reanalysis was based on.
type ReportContext struct {
	PostID         bson.ObjectID
	PostText       string
	Reports        []models.Report
	PostFrequency  int
	AccountAgeDays float64
}

// LearningLogger appends a learning entry whenever a reanalysis changes the
// decision. Storage errors never reach the caller.
type LearningLogger struct {
	log   *zap.Logger
	store LearningStore
	now   func() time.Time
}

func NewLearningLogger(log *zap.Logger, store LearningStore) *LearningLogger {
	return &LearningLogger{log: log, store: store, now: time.Now}
}

// RecordIfChanged reports whether an entry was stored.
func (l *LearningLogger) RecordIfChanged(ctx context.Context, original Verdict, updated ReanalysisVerdict, rc ReportContext) bool {
	if original.Decision == updated.Decision {
		return false
	}
	categories := make([]models.ReportReason, 0, len(rc.Reports))
	for _, r := range rc.Reports {
		categories = append(categories, r.Reason)
	}
	origLane := original.Lane
	if origLane == "" {
		origLane = models.LaneUnknown
	}
	newLane := updated.Lane
	if newLane == "" {
		newLane = models.LaneUnknown
	}
	entry := &models.ModerationLearning{
		PostID:             rc.PostID,
		PostText:           rc.PostText,
		OriginalDecision:   original.Decision,
		OriginalLane:       origLane,
		NewDecision:        updated.Decision,
		NewLane:            newLane,
		LearningNote:       updated.LearningNote,
		ReportCount:        len(rc.Reports),
		ReportCategories:   categories,
		WasDecisionChanged: true,
		UserContext: models.LearningUserContext{
			PostFrequency:  rc.PostFrequency,
			AccountAgeDays: int(math.Floor(rc.AccountAgeDays)),
		},
		CreatedAt: l.now().UTC(),
	}
	if err := l.store.Append(ctx, entry); err != nil {
		LearningEntriesTotal.WithLabelValues("failed").Inc()
		l.log.Error("store learning example failed",
			zap.String("post_id", rc.PostID.Hex()),
			zap.Error(err))
		return false
	}
	LearningEntriesTotal.WithLabelValues("stored").Inc()
	l.log.Info("learning example stored",
		zap.String("post_id", rc.PostID.Hex()),
		zap.String("from", string(original.Decision)),
		zap.String("to", string(updated.Decision)),
		zap.String("note", updated.LearningNote))
	return true
}
