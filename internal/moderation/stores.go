package moderation

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ualiu/neighbours-only/internal/models"
)

// ActivityReader supplies author context for a moderation pass.
type ActivityReader interface {
	CountPostsSince(ctx context.Context, userID bson.ObjectID, since time.Time) (int64, error)
	FindUser(ctx context.Context, userID bson.ObjectID) (*models.User, error)
}

// ModerationUpdate replaces a post's moderation state in one write. An empty
// RevisionSuggestion removes any suggestion left by an earlier verdict.
type ModerationUpdate struct {
	Record             models.ModerationRecord
	IsVisible          bool
	NeedsRevision      bool
	RevisionSuggestion string
}

type PostStore interface {
	// FindByID returns ErrPostNotFound when the post does not exist.
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Post, error)
	// IncrementReportCount atomically adds one report and returns the post
	// as it is after the increment.
	IncrementReportCount(ctx context.Context, id bson.ObjectID) (*models.Post, error)
	ApplyModeration(ctx context.Context, id bson.ObjectID, u ModerationUpdate) error
}

type ReportStore interface {
	// Create returns ErrDuplicateReport when the user already reported the post.
	Create(ctx context.Context, r *models.Report) error
	Delete(ctx context.Context, id bson.ObjectID) error
	ListByPost(ctx context.Context, postID bson.ObjectID) ([]models.Report, error)
	MarkReviewed(ctx context.Context, postID bson.ObjectID, snap models.ReanalysisSnapshot) (int64, error)
}

type LearningStore interface {
	Append(ctx context.Context, e *models.ModerationLearning) error
}
