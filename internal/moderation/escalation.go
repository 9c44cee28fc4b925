package moderation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/ualiu/neighbours-only/internal/models"
)

const DefaultReportThreshold = 3

type ConcernRequest struct {
	PostID          bson.ObjectID
	ReportingUserID bson.ObjectID
	NeighborhoodID  bson.ObjectID
	Reason          models.ReportReason
	Details         string
}

type ConcernResult struct {
	Accepted      bool
	ReportCount   int
	WillReanalyze bool
	// Reanalysis is set when a reanalysis ran, including failed ones.
	Reanalysis *ReanalysisVerdict
}

// EscalationController files neighbor concerns and re-evaluates a post each
// time its report count reaches a multiple of the threshold.
type EscalationController struct {
	log        *zap.Logger
	posts      PostStore
	reports    ReportStore
	users      ActivityReader
	classifier Classifier
	learning   *LearningLogger
	mapper     Mapper
	threshold  int
	timeout    time.Duration
	now        func() time.Time
}

type EscalationConfig struct {
	Threshold int
	Timeout   time.Duration
	Mapper    Mapper
}

func NewEscalationController(log *zap.Logger, posts PostStore, reports ReportStore, users ActivityReader,
	classifier Classifier, learning *LearningLogger, cfg EscalationConfig) *EscalationController {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultReportThreshold
	}
	return &EscalationController{
		log:        log.With(zap.String("module", "escalation")),
		posts:      posts,
		reports:    reports,
		users:      users,
		classifier: classifier,
		learning:   learning,
		mapper:     cfg.Mapper,
		threshold:  cfg.Threshold,
		timeout:    cfg.Timeout,
		now:        time.Now,
	}
}

// ShouldReanalyze reports whether a post that just reached count reports
// needs a fresh verdict. Only one increment can observe each multiple.
func ShouldReanalyze(count, threshold int) bool {
	if threshold <= 0 {
		threshold = DefaultReportThreshold
	}
	return count >= threshold && count%threshold == 0
}

func (e *EscalationController) FileConcern(ctx context.Context, req ConcernRequest) (ConcernResult, error) {
	if !req.Reason.Valid() {
		return ConcernResult{}, ErrInvalidReason
	}
	target, err := e.posts.FindByID(ctx, req.PostID)
	if err != nil {
		return ConcernResult{}, err
	}
	// Hidden posts and posts from other neighborhoods do not exist for the reporter.
	if !target.OpenToNeighbors(req.NeighborhoodID) {
		return ConcernResult{}, ErrPostNotFound
	}

	now := e.now().UTC()
	report := &models.Report{
		ID:             bson.NewObjectID(),
		PostID:         req.PostID,
		ReportedBy:     req.ReportingUserID,
		NeighborhoodID: req.NeighborhoodID,
		Reason:         req.Reason,
		Details:        strings.TrimSpace(req.Details),
		Status:         models.ReportPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := e.reports.Create(ctx, report); err != nil {
		return ConcernResult{}, err
	}

	post, err := e.posts.IncrementReportCount(ctx, req.PostID)
	if err != nil {
		// A stored report is always a counted one.
		if derr := e.reports.Delete(ctx, report.ID); derr != nil {
			e.log.Error("rollback report failed",
				zap.String("post_id", req.PostID.Hex()), zap.String("report_id", report.ID.Hex()), zap.Error(derr))
		}
		return ConcernResult{}, fmt.Errorf("increment report count: %w", err)
	}

	res := ConcernResult{Accepted: true, ReportCount: post.ReportCount}
	if !ShouldReanalyze(post.ReportCount, e.threshold) {
		return res, nil
	}

	res.WillReanalyze = true
	rv := e.reanalyze(ctx, post)
	res.Reanalysis = &rv
	return res, nil
}

// reanalyze re-reads every report of the post and applies the new verdict.
// Failures are logged; the already-counted report stands either way.
func (e *EscalationController) reanalyze(ctx context.Context, post *models.Post) ReanalysisVerdict {
	log := e.log.With(zap.String("post_id", post.ID.Hex()), zap.Int("report_count", post.ReportCount))
	log.Info("report threshold reached, reanalyzing")
	ReanalysesTotal.Inc()

	original := VerdictFromRecord(post.Moderation)

	reports, err := e.reports.ListByPost(ctx, post.ID)
	if err != nil {
		log.Error("load reports failed", zap.Error(err))
		return ReanalysisVerdict{
			Lane:       original.Lane,
			Decision:   original.Decision,
			Confidence: original.Confidence,
			Reason:     FailPreserveReason,
			Categories: original.Categories,
			Failed:     true,
		}
	}

	rv := ReanalyzeOrPreserve(ctx, log, e.classifier, e.timeout, ReanalyzeRequest{
		PostText: post.Text,
		Original: original,
		Reports:  reports,
	})
	if rv.Failed {
		return rv
	}

	now := e.now().UTC()
	out := e.mapper.OutcomeFor(rv.Decision)
	if err := e.posts.ApplyModeration(ctx, post.ID, ModerationUpdate{
		Record:        e.mapper.Record(rv.Decision, rv.Reason, rv.Confidence, rv.Categories, now),
		IsVisible:     out.Visible,
		NeedsRevision: out.NeedsRevision,
	}); err != nil {
		log.Error("apply reanalysis failed", zap.Error(err))
		return rv
	}

	if _, err := e.reports.MarkReviewed(ctx, post.ID, models.ReanalysisSnapshot{
		Decision:    rv.Decision,
		Reason:      rv.Reason,
		Confidence:  rv.Confidence,
		CheckedAt:   now,
		ActionTaken: rv.ActionTaken,
	}); err != nil {
		log.Error("mark reports reviewed failed", zap.Error(err))
	}

	rc := ReportContext{
		PostID:        post.ID,
		PostText:      post.Text,
		Reports:       reports,
		PostFrequency: post.BusinessDetection.PostFrequency,
	}
	if u, err := e.users.FindUser(ctx, post.UserID); err == nil {
		rc.AccountAgeDays = u.AccountAgeDays(now)
	}
	e.learning.RecordIfChanged(ctx, original, rv, rc)

	if !out.Visible && original.Decision != rv.Decision {
		log.Info("post hidden after community feedback", zap.String("decision", string(rv.Decision)))
	}
	return rv
}
