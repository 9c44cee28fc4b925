package moderation

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ualiu/neighbours-only/internal/models"
)

var errBoom = errors.New("boom")

type stubClassifier struct {
	mu             sync.Mutex
	classify       func(ClassifyRequest) (Verdict, error)
	reanalyze      func(ReanalyzeRequest) (ReanalysisVerdict, error)
	classifyCalls  []ClassifyRequest
	reanalyzeCalls []ReanalyzeRequest
}

func (s *stubClassifier) Classify(_ context.Context, req ClassifyRequest) (Verdict, error) {
	s.mu.Lock()
	s.classifyCalls = append(s.classifyCalls, req)
	s.mu.Unlock()
	if s.classify == nil {
		return Verdict{}, errBoom
	}
	return s.classify(req)
}

func (s *stubClassifier) Reanalyze(_ context.Context, req ReanalyzeRequest) (ReanalysisVerdict, error) {
	s.mu.Lock()
	s.reanalyzeCalls = append(s.reanalyzeCalls, req)
	s.mu.Unlock()
	if s.reanalyze == nil {
		return ReanalysisVerdict{}, errBoom
	}
	return s.reanalyze(req)
}

func (s *stubClassifier) reanalyzeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reanalyzeCalls)
}

type memActivity struct {
	users    map[bson.ObjectID]*models.User
	counts   map[bson.ObjectID]int64
	countErr error
}

func (m *memActivity) CountPostsSince(_ context.Context, userID bson.ObjectID, _ time.Time) (int64, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.counts[userID], nil
}

func (m *memActivity) FindUser(_ context.Context, userID bson.ObjectID) (*models.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}

type memPosts struct {
	mu    sync.Mutex
	posts map[bson.ObjectID]*models.Post
	// failIncrements makes the next n IncrementReportCount calls fail.
	failIncrements int
}

func newMemPosts(ps ...*models.Post) *memPosts {
	m := &memPosts{posts: map[bson.ObjectID]*models.Post{}}
	for _, p := range ps {
		m.posts[p.ID] = p
	}
	return m
}

func (m *memPosts) FindByID(_ context.Context, id bson.ObjectID) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPosts) IncrementReportCount(_ context.Context, id bson.ObjectID) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failIncrements > 0 {
		m.failIncrements--
		return nil, errBoom
	}
	p, ok := m.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	p.ReportCount++
	cp := *p
	return &cp, nil
}

func (m *memPosts) ApplyModeration(_ context.Context, id bson.ObjectID, u ModerationUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return ErrPostNotFound
	}
	p.Moderation = u.Record
	p.IsVisible = u.IsVisible
	p.NeedsRevision = u.NeedsRevision
	p.RevisionSuggestion = u.RevisionSuggestion
	return nil
}

func (m *memPosts) get(id bson.ObjectID) models.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.posts[id]
}

type reportKey struct{ post, user bson.ObjectID }

type memReports struct {
	mu      sync.Mutex
	seen    map[reportKey]bool
	reports []models.Report
}

func newMemReports() *memReports {
	return &memReports{seen: map[reportKey]bool{}}
}

func (m *memReports) Create(_ context.Context, r *models.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := reportKey{r.PostID, r.ReportedBy}
	if m.seen[k] {
		return ErrDuplicateReport
	}
	m.seen[k] = true
	if r.ID.IsZero() {
		r.ID = bson.NewObjectID()
	}
	m.reports = append(m.reports, *r)
	return nil
}

func (m *memReports) Delete(_ context.Context, id bson.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.reports {
		if r.ID == id {
			delete(m.seen, reportKey{r.PostID, r.ReportedBy})
			m.reports = append(m.reports[:i], m.reports[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memReports) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reports)
}

func (m *memReports) ListByPost(_ context.Context, postID bson.ObjectID) ([]models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Report{}
	for _, r := range m.reports {
		if r.PostID == postID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memReports) MarkReviewed(_ context.Context, postID bson.ObjectID, snap models.ReanalysisSnapshot) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range m.reports {
		if m.reports[i].PostID == postID {
			s := snap
			m.reports[i].Reanalysis = &s
			m.reports[i].Status = models.ReportReviewed
			n++
		}
	}
	return n, nil
}

type memLearning struct {
	mu      sync.Mutex
	entries []models.ModerationLearning
	err     error
}

func (m *memLearning) Append(_ context.Context, e *models.ModerationLearning) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memLearning) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
