package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/ualiu/neighbours-only/internal/models"
	"github.com/ualiu/neighbours-only/internal/moderation"
)

type CommentRepository struct {
	Client      *mongo.Client
	ColComments *mongo.Collection
	ColPosts    *mongo.Collection
}

// Create inserts the comment and bumps the post's comment_count in one
// transaction.
func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) error {
	if c.ID.IsZero() {
		c.ID = bson.NewObjectID()
	}

	sess, err := r.Client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc context.Context) (interface{}, error) {
		if _, err := r.ColComments.InsertOne(sc, c); err != nil {
			return nil, err
		}
		res, err := r.ColPosts.UpdateOne(sc,
			bson.M{"_id": c.PostID},
			bson.M{"$inc": bson.M{"comment_count": 1}},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, moderation.ErrPostNotFound
		}
		return nil, nil
	})
	return err
}

// ListByPost returns a thread oldest first, the way it reads under a post.
func (r *CommentRepository) ListByPost(ctx context.Context, postID bson.ObjectID, cursorStr string, limit int64) ([]models.Comment, *string, error) {
	filter := bson.M{"post_id": postID}
	if err := oldestFirst.after(filter, cursorStr); err != nil {
		return nil, nil, err
	}

	cur, err := r.ColComments.Find(ctx, filter, oldestFirst.find(limit))
	if err != nil {
		return nil, nil, err
	}
	defer cur.Close(ctx)

	all := []models.Comment{}
	if err := cur.All(ctx, &all); err != nil {
		return nil, nil, err
	}
	items, next := cut(all, limit, func(c models.Comment) (time.Time, bson.ObjectID) { return c.CreatedAt, c.ID })
	return items, next, nil
}

// Delete removes the author's own comment and decrements comment_count,
// never below zero.
func (r *CommentRepository) Delete(ctx context.Context, commentID, userID bson.ObjectID) error {
	sess, err := r.Client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc context.Context) (interface{}, error) {
		var c models.Comment
		err := r.ColComments.FindOneAndDelete(sc, bson.M{"_id": commentID, "user_id": userID}).Decode(&c)
		if errors.Is(err, mongo.ErrNoDocuments) {
			n, cerr := r.ColComments.CountDocuments(sc, bson.M{"_id": commentID})
			if cerr != nil {
				return nil, cerr
			}
			if n == 0 {
				return nil, ErrCommentNotFound
			}
			return nil, ErrNotAuthor
		}
		if err != nil {
			return nil, err
		}

		update := mongo.Pipeline{
			bson.D{{Key: "$set", Value: bson.D{
				{Key: "comment_count", Value: bson.D{
					{Key: "$max", Value: bson.A{
						0,
						bson.D{{Key: "$subtract", Value: bson.A{
							bson.D{{Key: "$ifNull", Value: bson.A{"$comment_count", 0}}},
							1,
						}}},
					}},
				}},
			}}},
		}
		_, err = r.ColPosts.UpdateOne(sc, bson.M{"_id": c.PostID}, update)
		return nil, err
	})
	return err
}
