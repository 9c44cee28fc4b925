package moderation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ualiu/neighbours-only/internal/models"
)

func TestMapperOutcomeFor(t *testing.T) {
	tests := []struct {
		name   string
		mapper Mapper
		d      models.Decision
		want   Outcome
	}{
		{"allow", Mapper{}, models.DecisionAllow, Outcome{Status: models.StatusApproved, Lane: models.LaneGreen, Visible: true}},
		{"flag hidden", Mapper{}, models.DecisionFlag, Outcome{Status: models.StatusFlagged, Lane: models.LaneYellow}},
		{"flag visible", Mapper{FlaggedVisible: true}, models.DecisionFlag, Outcome{Status: models.StatusFlagged, Lane: models.LaneYellow, Visible: true}},
		{"block", Mapper{}, models.DecisionBlock, Outcome{Status: models.StatusRejected, Lane: models.LaneRed, NeedsRevision: true}},
		{"unknown", Mapper{}, models.Decision("maybe"), Outcome{Status: models.StatusPending, Lane: models.LaneUnknown}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mapper.OutcomeFor(tt.d))
		})
	}
}

func TestMapperApplyKeepsPostConsistent(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	suggestion := "Remove the phone number"
	for _, m := range []Mapper{{}, {FlaggedVisible: true}} {
		for _, d := range []models.Decision{models.DecisionAllow, models.DecisionFlag, models.DecisionBlock} {
			p := &models.Post{Text: "x"}
			v := Verdict{Decision: d, Lane: LaneFor(d), Confidence: 80, Reason: "r"}
			if d == models.DecisionBlock {
				v.RevisionSuggestion = &suggestion
			}
			m.Apply(p, v, at)

			assert.True(t, m.Consistent(p), "decision=%s flaggedVisible=%v", d, m.FlaggedVisible)
			assert.Equal(t, d, p.Moderation.Decision)
			assert.Equal(t, at, p.Moderation.CheckedAt)
			assert.NotNil(t, p.Moderation.Categories)
			if m.FlaggedVisible && d == models.DecisionFlag {
				continue
			}
			approved := p.Moderation.Status == models.StatusApproved
			assert.Equal(t, approved, p.IsVisible)
			assert.Equal(t, approved, p.Moderation.Lane == models.LaneGreen)
		}
	}
}

func TestMapperApplyReplacesRecordWholesale(t *testing.T) {
	m := Mapper{}
	p := &models.Post{}
	suggestion := "Drop the link"
	m.Apply(p, Verdict{Decision: models.DecisionBlock, Reason: "ad", Categories: []string{"advertising"}, RevisionSuggestion: &suggestion}, time.Now())
	require.True(t, p.NeedsRevision)
	require.Equal(t, suggestion, p.RevisionSuggestion)

	m.Apply(p, Verdict{Decision: models.DecisionAllow, Reason: "fine"}, time.Now())
	assert.Equal(t, models.StatusApproved, p.Moderation.Status)
	assert.Equal(t, "fine", p.Moderation.Reason)
	assert.Empty(t, p.Moderation.Categories)
	assert.False(t, p.NeedsRevision)
	assert.Empty(t, p.RevisionSuggestion)
	assert.True(t, p.IsVisible)
}

func TestMapperApplyStoresClassifierBusiness(t *testing.T) {
	m := Mapper{}
	p := &models.Post{}
	biz := &models.ClassifierBusiness{IsBusinessRelated: true, IsNeighborEntrepreneur: true, PromotionalScore: 35}
	m.Apply(p, Verdict{Decision: models.DecisionAllow, ClassifierBusiness: biz}, time.Now())
	require.NotNil(t, p.ClassifierBusiness)
	assert.True(t, p.ClassifierBusiness.IsNeighborEntrepreneur)
	assert.Equal(t, 35, p.ClassifierBusiness.PromotionalScore)

	m.Apply(p, Verdict{Decision: models.DecisionAllow, Failed: true}, time.Now())
	assert.Nil(t, p.ClassifierBusiness)
}

func TestConsistentRejectsBrokenPosts(t *testing.T) {
	m := Mapper{}
	assert.False(t, m.Consistent(&models.Post{
		IsVisible:  true,
		Moderation: models.ModerationRecord{Status: models.StatusFlagged, Lane: models.LaneYellow},
	}))
	assert.False(t, m.Consistent(&models.Post{
		IsVisible:  false,
		Moderation: models.ModerationRecord{Status: models.StatusApproved, Lane: models.LaneGreen},
	}))
	assert.False(t, m.Consistent(&models.Post{
		IsVisible:  true,
		Moderation: models.ModerationRecord{Status: models.StatusApproved, Lane: models.LaneYellow},
	}))
}

func TestVerdictFromRecord(t *testing.T) {
	rec := Mapper{}.Record(models.DecisionFlag, "repeated ad", 70, []string{"promotional"}, time.Now())
	v := VerdictFromRecord(rec)
	assert.Equal(t, models.DecisionFlag, v.Decision)
	assert.Equal(t, models.LaneYellow, v.Lane)
	assert.Equal(t, 70, v.Confidence)
	assert.Equal(t, "repeated ad", v.Reason)
	assert.Equal(t, []string{"promotional"}, v.Categories)
}
