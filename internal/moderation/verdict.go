package moderation

import (
	"time"

	"github.com/ualiu/neighbours-only/internal/models"
)

// Verdict is the result of classifying a new post.
type Verdict struct {
	Lane               models.Lane
	Decision           models.Decision
	Confidence         int
	Reason             string
	Categories         []string
	UserMessage        string
	RevisionSuggestion *string
	BusinessDetection  models.BusinessDetection
	ClassifierBusiness *models.ClassifierBusiness
	// Failed is set when the verdict is a fallback rather than a real answer.
	Failed bool
}

// ReanalysisVerdict is the result of re-evaluating a post against its reports.
type ReanalysisVerdict struct {
	Lane            models.Lane
	Decision        models.Decision
	Confidence      int
	Reason          string
	Categories      []string
	ChangedDecision bool
	LearningNote    string
	ActionTaken     string
	Failed          bool
}

// Outcome is what a decision means for a stored post.
type Outcome struct {
	Status        models.ModerationStatus
	Lane          models.Lane
	Visible       bool
	NeedsRevision bool
}

// Mapper turns decisions into stored state. It is the only place where the
// decision vocabulary becomes status and visibility.
type Mapper struct {
	// FlaggedVisible keeps yellow-lane posts in the feed while under review.
	FlaggedVisible bool
}

func (m Mapper) OutcomeFor(d models.Decision) Outcome {
	switch d {
	case models.DecisionAllow:
		return Outcome{Status: models.StatusApproved, Lane: models.LaneGreen, Visible: true}
	case models.DecisionFlag:
		return Outcome{Status: models.StatusFlagged, Lane: models.LaneYellow, Visible: m.FlaggedVisible}
	case models.DecisionBlock:
		return Outcome{Status: models.StatusRejected, Lane: models.LaneRed, NeedsRevision: true}
	}
	return Outcome{Status: models.StatusPending, Lane: models.LaneUnknown}
}

// LaneFor is the lane implied by a decision.
func LaneFor(d models.Decision) models.Lane {
	return Mapper{}.OutcomeFor(d).Lane
}

// Record builds the embedded moderation record for a verdict.
func (m Mapper) Record(d models.Decision, reason string, confidence int, categories []string, at time.Time) models.ModerationRecord {
	out := m.OutcomeFor(d)
	if categories == nil {
		categories = []string{}
	}
	return models.ModerationRecord{
		Status:     out.Status,
		Lane:       out.Lane,
		Decision:   d,
		Reason:     reason,
		Confidence: confidence,
		Categories: categories,
		CheckedAt:  at,
	}
}

// Apply replaces the moderation state of p with the given verdict.
func (m Mapper) Apply(p *models.Post, v Verdict, at time.Time) {
	out := m.OutcomeFor(v.Decision)
	p.Moderation = m.Record(v.Decision, v.Reason, v.Confidence, v.Categories, at)
	p.IsVisible = out.Visible
	p.NeedsRevision = out.NeedsRevision
	p.RevisionSuggestion = ""
	if v.RevisionSuggestion != nil {
		p.RevisionSuggestion = *v.RevisionSuggestion
	}
	p.BusinessDetection = v.BusinessDetection
	p.ClassifierBusiness = v.ClassifierBusiness
}

// Consistent checks the post invariant approved <=> visible <=> green.
// Flagged posts are allowed to be visible when the mapper says so.
func (m Mapper) Consistent(p *models.Post) bool {
	approved := p.Moderation.Status == models.StatusApproved
	green := p.Moderation.Lane == models.LaneGreen
	if m.FlaggedVisible && p.Moderation.Status == models.StatusFlagged {
		return p.IsVisible && !green
	}
	return approved == p.IsVisible && approved == green
}

// VerdictFromRecord rebuilds the verdict a post currently carries.
func VerdictFromRecord(rec models.ModerationRecord) Verdict {
	return Verdict{
		Lane:       rec.Lane,
		Decision:   rec.Decision,
		Confidence: rec.Confidence,
		Reason:     rec.Reason,
		Categories: rec.Categories,
	}
}
