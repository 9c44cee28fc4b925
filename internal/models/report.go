package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type ReportReason string

const (
	ReasonPromotional   ReportReason = "promotional"
	ReasonHateSpeech    ReportReason = "hate_speech"
	ReasonHarassment    ReportReason = "harassment"
	ReasonSpam          ReportReason = "spam"
	ReasonInappropriate ReportReason = "inappropriate"
	ReasonOther         ReportReason = "other"
)

func (r ReportReason) Valid() bool {
	switch r {
	case ReasonPromotional, ReasonHateSpeech, ReasonHarassment,
		ReasonSpam, ReasonInappropriate, ReasonOther:
		return true
	}
	return false
}

type ReportStatus string

const (
	ReportPending     ReportStatus = "pending"
	ReportReviewed    ReportStatus = "reviewed"
	ReportActionTaken ReportStatus = "action_taken"
	ReportDismissed   ReportStatus = "dismissed"
)

// ReanalysisSnapshot is copied onto every report of a post once the
// community-informed reanalysis completes.
type ReanalysisSnapshot struct {
	Decision    Decision  `bson:"decision" json:"decision"`
	Reason      string    `bson:"reason" json:"reason"`
	Confidence  int       `bson:"confidence" json:"confidence"`
	CheckedAt   time.Time `bson:"checked_at" json:"checkedAt"`
	ActionTaken string    `bson:"action_taken" json:"actionTaken"`
}

type Report struct {
	ID             bson.ObjectID       `bson:"_id,omitempty" json:"id"`
	PostID         bson.ObjectID       `bson:"post_id" json:"postId"`
	ReportedBy     bson.ObjectID       `bson:"reported_by" json:"reportedBy"`
	NeighborhoodID bson.ObjectID       `bson:"neighborhood_id" json:"neighborhoodId"`
	Reason         ReportReason        `bson:"reason" json:"reason"`
	Details        string              `bson:"details" json:"details"`
	Reanalysis     *ReanalysisSnapshot `bson:"ai_reanalysis,omitempty" json:"reanalysis,omitempty"`
	Status         ReportStatus        `bson:"status" json:"status"`
	CreatedAt      time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updated_at" json:"updatedAt"`
}
