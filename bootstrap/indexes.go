package bootstrap

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// EnsureIndexes creates the indexes the moderation pipeline depends on.
// The unique report index is what makes duplicate concerns impossible.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection("reports").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "post_id", Value: 1}, {Key: "reported_by", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_post_reporter"),
		},
		{
			Keys:    bson.D{{Key: "post_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("post_status"),
		},
		{
			Keys:    bson.D{{Key: "neighborhood_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("neighborhood_recent"),
		},
	}); err != nil {
		return err
	}

	if _, err := db.Collection("posts").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "neighborhood_id", Value: 1},
				{Key: "is_visible", Value: 1},
				{Key: "created_at", Value: -1},
				{Key: "_id", Value: -1},
			},
			Options: options.Index().SetName("feed"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("user_recent"),
		},
	}); err != nil {
		return err
	}

	if _, err := db.Collection("comments").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "post_id", Value: 1}, {Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
		Options: options.Index().SetName("thread"),
	}); err != nil {
		return err
	}

	_, err := db.Collection("moderation_learning").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "was_decision_changed", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("changed_recent"),
		},
		{
			Keys:    bson.D{{Key: "original_decision", Value: 1}, {Key: "new_decision", Value: 1}},
			Options: options.Index().SetName("decision_pair"),
		},
	})
	return err
}
