package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ualiu/neighbours-only/internal/models"
	"github.com/ualiu/neighbours-only/internal/moderation"
)

// LearningRepository is append-only: there is no update or delete.
type LearningRepository struct {
	ColLearning *mongo.Collection
}

var _ moderation.LearningStore = (*LearningRepository)(nil)

func (r *LearningRepository) Append(ctx context.Context, e *models.ModerationLearning) error {
	if e.ID.IsZero() {
		e.ID = bson.NewObjectID()
	}
	_, err := r.ColLearning.InsertOne(ctx, e)
	return err
}

// List returns the newest entries first.
func (r *LearningRepository) List(ctx context.Context, limit int64, changedOnly bool) ([]models.ModerationLearning, error) {
	filter := bson.M{}
	if changedOnly {
		filter["was_decision_changed"] = true
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cur, err := r.ColLearning.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.ModerationLearning{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
