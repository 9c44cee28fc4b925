package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ualiu/neighbours-only/internal/models"
	"github.com/ualiu/neighbours-only/internal/moderation"
)

type PostRepository struct {
	Client      *mongo.Client
	ColPosts    *mongo.Collection
	ColComments *mongo.Collection
	ColReports  *mongo.Collection
}

var _ moderation.PostStore = (*PostRepository)(nil)

// Create inserts a post together with its moderation verdict, so a post is
// never readable before it has been moderated.
func (r *PostRepository) Create(ctx context.Context, p *models.Post) error {
	if p.ID.IsZero() {
		p.ID = bson.NewObjectID()
	}
	_, err := r.ColPosts.InsertOne(ctx, p)
	return err
}

func (r *PostRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.Post, error) {
	var p models.Post
	err := r.ColPosts.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, moderation.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// IncrementReportCount is the count-and-compare step of escalation: the
// returned count is unique per increment.
func (r *PostRepository) IncrementReportCount(ctx context.Context, id bson.ObjectID) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Post
	err := r.ColPosts.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"report_count": 1},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
		opts,
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, moderation.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ApplyModeration replaces the embedded moderation record wholesale. A
// suggestion from an earlier verdict does not survive the new one.
func (r *PostRepository) ApplyModeration(ctx context.Context, id bson.ObjectID, u moderation.ModerationUpdate) error {
	set := bson.M{
		"moderation":     u.Record,
		"is_visible":     u.IsVisible,
		"needs_revision": u.NeedsRevision,
		"updated_at":     time.Now().UTC(),
	}
	update := bson.M{"$set": set}
	if u.RevisionSuggestion != "" {
		set["revision_suggestion"] = u.RevisionSuggestion
	} else {
		update["$unset"] = bson.M{"revision_suggestion": ""}
	}

	res, err := r.ColPosts.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return moderation.ErrPostNotFound
	}
	return nil
}

// ListVisibleByNeighborhood: newest first feed of one neighborhood with
// cursor pagination. Only is_visible posts are returned.
func (r *PostRepository) ListVisibleByNeighborhood(
	ctx context.Context,
	neighborhoodID bson.ObjectID,
	cursorStr string,
	limit int64,
) ([]models.Post, *string, error) {
	filter := bson.M{"neighborhood_id": neighborhoodID, "is_visible": true}
	if err := newestFirst.after(filter, cursorStr); err != nil {
		return nil, nil, err
	}

	cur, err := r.ColPosts.Find(ctx, filter, newestFirst.find(limit))
	if err != nil {
		return nil, nil, err
	}
	defer cur.Close(ctx)

	all := []models.Post{}
	if err := cur.All(ctx, &all); err != nil {
		return nil, nil, err
	}
	items, next := cut(all, limit, func(p models.Post) (time.Time, bson.ObjectID) { return p.CreatedAt, p.ID })
	return items, next, nil
}

// Delete removes an author's post with its comments and reports in one
// transaction. Learning entries stay as the audit trail.
func (r *PostRepository) Delete(ctx context.Context, postID, authorID bson.ObjectID) error {
	sess, err := r.Client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc context.Context) (interface{}, error) {
		res, err := r.ColPosts.DeleteOne(sc, bson.M{"_id": postID, "user_id": authorID})
		if err != nil {
			return nil, err
		}
		if res.DeletedCount == 0 {
			n, err := r.ColPosts.CountDocuments(sc, bson.M{"_id": postID})
			if err != nil {
				return nil, err
			}
			if n == 0 {
				return nil, moderation.ErrPostNotFound
			}
			return nil, ErrNotAuthor
		}
		if _, err := r.ColComments.DeleteMany(sc, bson.M{"post_id": postID}); err != nil {
			return nil, err
		}
		_, err = r.ColReports.DeleteMany(sc, bson.M{"post_id": postID})
		return nil, err
	})
	return err
}
