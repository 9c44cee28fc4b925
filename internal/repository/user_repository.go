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

// UserRepository reads authors and their recent activity.
type UserRepository struct {
	ColUsers *mongo.Collection
	ColPosts *mongo.Collection
}

var _ moderation.ActivityReader = (*UserRepository)(nil)

func (r *UserRepository) FindUser(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	var u models.User
	err := r.ColUsers.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) CountPostsSince(ctx context.Context, userID bson.ObjectID, since time.Time) (int64, error) {
	return r.ColPosts.CountDocuments(ctx, bson.M{
		"user_id":    userID,
		"created_at": bson.M{"$gte": since},
	})
}
