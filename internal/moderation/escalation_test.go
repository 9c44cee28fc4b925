package moderation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap/zaptest"

	"github.com/ualiu/neighbours-only/internal/models"
)

type escalationFixture struct {
	ctrl     *EscalationController
	posts    *memPosts
	reports  *memReports
	learning *memLearning
	stub     *stubClassifier
	post     *models.Post
}

func newEscalationFixture(t *testing.T, decision models.Decision, mapper Mapper, stub *stubClassifier) *escalationFixture {
	t.Helper()
	author := bson.NewObjectID()
	post := &models.Post{
		ID:                bson.NewObjectID(),
		UserID:            author,
		NeighborhoodID:    bson.NewObjectID(),
		Text:              "Cheap gutter cleaning, DM for prices",
		BusinessDetection: models.BusinessDetection{PostFrequency: 2},
		CreatedAt:         fixedNow,
	}
	mapper.Apply(post, Verdict{Decision: decision, Lane: LaneFor(decision), Confidence: 66, Reason: "initial"}, fixedNow)

	posts := newMemPosts(post)
	reports := newMemReports()
	learning := &memLearning{}
	act := &memActivity{users: map[bson.ObjectID]*models.User{author: {ID: author, CreatedAt: fixedNow.Add(-10 * 24 * time.Hour)}}}

	log := zaptest.NewLogger(t)
	ll := NewLearningLogger(log, learning)
	ll.now = func() time.Time { return fixedNow }
	ctrl := NewEscalationController(log, posts, reports, act, stub, ll, EscalationConfig{Threshold: 3, Timeout: time.Second, Mapper: mapper})
	ctrl.now = func() time.Time { return fixedNow }

	return &escalationFixture{ctrl: ctrl, posts: posts, reports: reports, learning: learning, stub: stub, post: post}
}

func (f *escalationFixture) concern(t *testing.T, reason models.ReportReason) (ConcernResult, error) {
	t.Helper()
	return f.ctrl.FileConcern(context.Background(), ConcernRequest{
		PostID:          f.post.ID,
		ReportingUserID: bson.NewObjectID(),
		NeighborhoodID:  f.post.NeighborhoodID,
		Reason:          reason,
	})
}

func reanalyzeTo(d models.Decision) *stubClassifier {
	return &stubClassifier{reanalyze: func(req ReanalyzeRequest) (ReanalysisVerdict, error) {
		return ReanalysisVerdict{
			Lane:            LaneFor(d),
			Decision:        d,
			Confidence:      85,
			Reason:          "community context",
			Categories:      []string{"promotional"},
			ChangedDecision: d != req.Original.Decision,
			LearningNote:    "repeated gutter ads",
			ActionTaken:     "Post hidden pending review",
		}, nil
	}}
}

func TestShouldReanalyze(t *testing.T) {
	tests := []struct {
		count, threshold int
		want             bool
	}{
		{0, 3, false}, {1, 3, false}, {2, 3, false}, {3, 3, true},
		{4, 3, false}, {5, 3, false}, {6, 3, true}, {9, 3, true},
		{1, 1, true}, {2, 1, true},
		{3, 0, true}, {2, -1, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ShouldReanalyze(tt.count, tt.threshold), "count=%d threshold=%d", tt.count, tt.threshold)
	}
}

func TestFileConcernTriggersExactlyOnceAtThreshold(t *testing.T) {
	f := newEscalationFixture(t, models.DecisionAllow, Mapper{}, reanalyzeTo(models.DecisionFlag))

	for i := 1; i <= 2; i++ {
		res, err := f.concern(t, models.ReasonPromotional)
		require.NoError(t, err)
		assert.True(t, res.Accepted)
		assert.Equal(t, i, res.ReportCount)
		assert.False(t, res.WillReanalyze)
		assert.Nil(t, res.Reanalysis)
	}
	assert.Equal(t, 0, f.stub.reanalyzeCount())

	res, err := f.concern(t, models.ReasonSpam)
	require.NoError(t, err)
	assert.Equal(t, 3, res.ReportCount)
	assert.True(t, res.WillReanalyze)
	require.NotNil(t, res.Reanalysis)
	assert.Equal(t, models.DecisionFlag, res.Reanalysis.Decision)
	assert.Equal(t, 1, f.stub.reanalyzeCount())

	req := f.stub.reanalyzeCalls[0]
	assert.Len(t, req.Reports, 3)
	assert.Equal(t, models.DecisionAllow, req.Original.Decision)

	stored := f.posts.get(f.post.ID)
	assert.Equal(t, models.StatusFlagged, stored.Moderation.Status)
	assert.Equal(t, models.LaneYellow, stored.Moderation.Lane)
	assert.False(t, stored.IsVisible)
	assert.True(t, Mapper{}.Consistent(&stored))

	reports, _ := f.reports.ListByPost(context.Background(), f.post.ID)
	for _, r := range reports {
		assert.Equal(t, models.ReportReviewed, r.Status)
		require.NotNil(t, r.Reanalysis)
		assert.Equal(t, models.DecisionFlag, r.Reanalysis.Decision)
	}

	// Hidden now, so neighbors can no longer report it.
	_, err = f.concern(t, models.ReasonOther)
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.Equal(t, 3, f.posts.get(f.post.ID).ReportCount)
	assert.Equal(t, 1, f.stub.reanalyzeCount())
}

func TestFileConcernReanalyzesAtEachMultiple(t *testing.T) {
	f := newEscalationFixture(t, models.DecisionAllow, Mapper{}, reanalyzeTo(models.DecisionAllow))

	want := map[int]bool{1: false, 2: false, 3: true, 4: false, 5: false, 6: true, 7: false}
	for i := 1; i <= 7; i++ {
		res, err := f.concern(t, models.ReasonSpam)
		require.NoError(t, err)
		assert.Equal(t, i, res.ReportCount)
		assert.Equal(t, want[i], res.WillReanalyze, "report %d", i)
	}
	assert.Equal(t, 2, f.stub.reanalyzeCount())
	assert.Len(t, f.stub.reanalyzeCalls[1].Reports, 6)
}

func TestFileConcernIgnoresPostsReporterCannotSee(t *testing.T) {
	tests := []struct {
		name     string
		decision models.Decision
		mapper   Mapper
		outsider bool
	}{
		{name: "blocked post, same neighborhood", decision: models.DecisionBlock},
		{name: "flagged hidden post, same neighborhood", decision: models.DecisionFlag},
		{name: "visible post, other neighborhood", decision: models.DecisionAllow, outsider: true},
		{name: "flagged visible post, other neighborhood", decision: models.DecisionFlag, mapper: Mapper{FlaggedVisible: true}, outsider: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEscalationFixture(t, tt.decision, tt.mapper, reanalyzeTo(models.DecisionAllow))
			before := f.posts.get(f.post.ID)

			hood := f.post.NeighborhoodID
			if tt.outsider {
				hood = bson.NewObjectID()
			}
			for i := 0; i < 3; i++ {
				res, err := f.ctrl.FileConcern(context.Background(), ConcernRequest{
					PostID:          f.post.ID,
					ReportingUserID: bson.NewObjectID(),
					NeighborhoodID:  hood,
					Reason:          models.ReasonSpam,
				})
				assert.ErrorIs(t, err, ErrPostNotFound)
				assert.False(t, res.Accepted)
			}

			after := f.posts.get(f.post.ID)
			assert.Equal(t, 0, after.ReportCount)
			assert.Equal(t, before.Moderation, after.Moderation)
			assert.Equal(t, before.IsVisible, after.IsVisible)
			assert.Equal(t, 0, f.reports.count())
			assert.Equal(t, 0, f.stub.reanalyzeCount())
		})
	}
}

func TestFileConcernRollsBackReportWhenCountFails(t *testing.T) {
	f := newEscalationFixture(t, models.DecisionAllow, Mapper{}, reanalyzeTo(models.DecisionAllow))
	f.posts.failIncrements = 1
	req := ConcernRequest{
		PostID:          f.post.ID,
		ReportingUserID: bson.NewObjectID(),
		NeighborhoodID:  f.post.NeighborhoodID,
		Reason:          models.ReasonInappropriate,
	}

	_, err := f.ctrl.FileConcern(context.Background(), req)
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, 0, f.reports.count())
	assert.Equal(t, 0, f.posts.get(f.post.ID).ReportCount)

	res, err := f.ctrl.FileConcern(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ReportCount)
	assert.Equal(t, 1, f.reports.count())
}

func TestReanalysisClearsRevisionSuggestion(t *testing.T) {
	f := newEscalationFixture(t, models.DecisionAllow, Mapper{}, reanalyzeTo(models.DecisionAllow))
	f.posts.posts[f.post.ID].RevisionSuggestion = "Mention it's a one-time sale"

	for i := 0; i < 3; i++ {
		_, err := f.concern(t, models.ReasonPromotional)
		require.NoError(t, err)
	}
	require.Equal(t, 1, f.stub.reanalyzeCount())
	stored := f.posts.get(f.post.ID)
	assert.Empty(t, stored.RevisionSuggestion)
	assert.Equal(t, "community context", stored.Moderation.Reason)
}

func TestFileConcernConcurrentReportsTriggerOnce(t *testing.T) {
	f := newEscalationFixture(t, models.DecisionAllow, Mapper{}, reanalyzeTo(models.DecisionAllow))

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.concern(t, models.ReasonSpam)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, f.posts.get(f.post.ID).ReportCount)
	assert.Equal(t, 1, f.stub.reanalyzeCount())
}

func TestFileConcernRejectsDuplicate(t *testing.T) {
	f := newEscalationFixture(t, models.DecisionAllow, Mapper{}, reanalyzeTo(models.DecisionAllow))
	req := ConcernRequest{
		PostID:          f.post.ID,
		ReportingUserID: bson.NewObjectID(),
		NeighborhoodID:  f.post.NeighborhoodID,
		Reason:          models.ReasonHarassment,
	}

	res, err := f.ctrl.FileConcern(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ReportCount)

	_, err = f.ctrl.FileConcern(context.Background(), req)
	assert.ErrorIs(t, err, ErrDuplicateReport)
	assert.Equal(t, 1, f.posts.get(f.post.ID).ReportCount)
}

func TestFileConcernValidation(t *testing.T) {
	f := newEscalationFixture(t, models.DecisionAllow, Mapper{}, reanalyzeTo(models.DecisionAllow))

	_, err := f.concern(t, models.ReportReason("boring"))
	assert.ErrorIs(t, err, ErrInvalidReason)

	_, err = f.ctrl.FileConcern(context.Background(), ConcernRequest{
		PostID:          bson.NewObjectID(),
		ReportingUserID: bson.NewObjectID(),
		Reason:          models.ReasonSpam,
	})
	assert.ErrorIs(t, err, ErrPostNotFound)

	assert.Equal(t, 0, f.posts.get(f.post.ID).ReportCount)
	reports, _ := f.reports.ListByPost(context.Background(), f.post.ID)
	assert.Empty(t, reports)
}

func TestReanalysisFailurePreservesFlaggedPost(t *testing.T) {
	f := newEscalationFixture(t, models.DecisionFlag, Mapper{FlaggedVisible: true}, &stubClassifier{})
	before := f.posts.get(f.post.ID)
	require.Equal(t, models.StatusFlagged, before.Moderation.Status)

	var res ConcernResult
	var err error
	for i := 0; i < 3; i++ {
		res, err = f.concern(t, models.ReasonSpam)
		require.NoError(t, err)
	}

	require.NotNil(t, res.Reanalysis)
	assert.True(t, res.Reanalysis.Failed)
	assert.Equal(t, models.DecisionFlag, res.Reanalysis.Decision)

	after := f.posts.get(f.post.ID)
	assert.Equal(t, models.StatusFlagged, after.Moderation.Status)
	assert.Equal(t, before.Moderation, after.Moderation)
	assert.Equal(t, before.IsVisible, after.IsVisible)

	reports, _ := f.reports.ListByPost(context.Background(), f.post.ID)
	for _, r := range reports {
		assert.Equal(t, models.ReportPending, r.Status)
		assert.Nil(t, r.Reanalysis)
	}
	assert.Equal(t, 0, f.learning.count())
}

func TestReanalysisLearningOnlyOnChange(t *testing.T) {
	t.Run("same decision", func(t *testing.T) {
		f := newEscalationFixture(t, models.DecisionAllow, Mapper{}, reanalyzeTo(models.DecisionAllow))
		for i := 0; i < 3; i++ {
			_, err := f.concern(t, models.ReasonOther)
			require.NoError(t, err)
		}
		assert.Equal(t, 1, f.stub.reanalyzeCount())
		assert.Equal(t, 0, f.learning.count())
	})

	t.Run("changed decision", func(t *testing.T) {
		f := newEscalationFixture(t, models.DecisionAllow, Mapper{}, reanalyzeTo(models.DecisionBlock))
		for i := 0; i < 3; i++ {
			_, err := f.concern(t, models.ReasonPromotional)
			require.NoError(t, err)
		}
		require.Equal(t, 1, f.learning.count())
		e := f.learning.entries[0]
		assert.Equal(t, f.post.ID, e.PostID)
		assert.Equal(t, models.DecisionAllow, e.OriginalDecision)
		assert.Equal(t, models.LaneGreen, e.OriginalLane)
		assert.Equal(t, models.DecisionBlock, e.NewDecision)
		assert.Equal(t, models.LaneRed, e.NewLane)
		assert.Equal(t, 3, e.ReportCount)
		assert.Equal(t, []models.ReportReason{models.ReasonPromotional, models.ReasonPromotional, models.ReasonPromotional}, e.ReportCategories)
		assert.True(t, e.WasDecisionChanged)
		assert.Equal(t, 2, e.UserContext.PostFrequency)
		assert.Equal(t, 10, e.UserContext.AccountAgeDays)

		stored := f.posts.get(f.post.ID)
		assert.Equal(t, models.StatusRejected, stored.Moderation.Status)
		assert.True(t, stored.NeedsRevision)
		assert.False(t, stored.IsVisible)
	})
}

func TestReanalysisKeepsFlaggedVisibleWhenConfigured(t *testing.T) {
	mapper := Mapper{FlaggedVisible: true}
	f := newEscalationFixture(t, models.DecisionAllow, mapper, reanalyzeTo(models.DecisionFlag))
	for i := 0; i < 3; i++ {
		_, err := f.concern(t, models.ReasonSpam)
		require.NoError(t, err)
	}
	stored := f.posts.get(f.post.ID)
	assert.Equal(t, models.StatusFlagged, stored.Moderation.Status)
	assert.True(t, stored.IsVisible)
	assert.True(t, mapper.Consistent(&stored))
}
