package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ualiu/neighbours-only/internal/models"
	"github.com/ualiu/neighbours-only/internal/moderation"
)

type ReportRepository struct {
	ColReports *mongo.Collection
}

var _ moderation.ReportStore = (*ReportRepository)(nil)

// Create relies on the unique (post_id, reported_by) index to reject a second
// concern from the same neighbor, even under concurrent submissions.
func (r *ReportRepository) Create(ctx context.Context, rep *models.Report) error {
	if rep.ID.IsZero() {
		rep.ID = bson.NewObjectID()
	}
	_, err := r.ColReports.InsertOne(ctx, rep)
	if mongo.IsDuplicateKeyError(err) {
		return moderation.ErrDuplicateReport
	}
	return err
}

// Delete removes a single report. It is the rollback for a report whose
// count could not be recorded.
func (r *ReportRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	_, err := r.ColReports.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *ReportRepository) ListByPost(ctx context.Context, postID bson.ObjectID) ([]models.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.ColReports.Find(ctx, bson.M{"post_id": postID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Report{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkReviewed stamps every report of the post with the reanalysis result.
func (r *ReportRepository) MarkReviewed(ctx context.Context, postID bson.ObjectID, snap models.ReanalysisSnapshot) (int64, error) {
	res, err := r.ColReports.UpdateMany(ctx,
		bson.M{"post_id": postID},
		bson.M{"$set": bson.M{
			"ai_reanalysis": snap,
			"status":        models.ReportReviewed,
			"updated_at":    time.Now().UTC(),
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
