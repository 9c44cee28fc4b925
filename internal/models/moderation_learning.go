package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type LearningUserContext struct {
	PostFrequency  int `bson:"post_frequency" json:"postFrequency"`
	AccountAgeDays int `bson:"account_age" json:"accountAgeDays"`
}

// ModerationLearning is an append-only record of a reanalysis that
// changed the original verdict.
type ModerationLearning struct {
	ID                 bson.ObjectID       `bson:"_id,omitempty" json:"id"`
	PostID             bson.ObjectID       `bson:"post_id" json:"postId"`
	PostText           string              `bson:"post_text" json:"postText"`
	OriginalDecision   Decision            `bson:"original_decision" json:"originalDecision"`
	OriginalLane       Lane                `bson:"original_lane" json:"originalLane"`
	NewDecision        Decision            `bson:"new_decision" json:"newDecision"`
	NewLane            Lane                `bson:"new_lane" json:"newLane"`
	LearningNote       string              `bson:"learning_note" json:"learningNote"`
	ReportCount        int                 `bson:"report_count" json:"reportCount"`
	ReportCategories   []ReportReason      `bson:"report_categories" json:"reportCategories"`
	WasDecisionChanged bool                `bson:"was_decision_changed" json:"wasDecisionChanged"`
	UserContext        LearningUserContext `bson:"user_context" json:"userContext"`
	CreatedAt          time.Time           `bson:"created_at" json:"createdAt"`
}
