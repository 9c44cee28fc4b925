package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const MaxPostLength = 2000

type Post struct {
	ID                 bson.ObjectID       `json:"id" bson:"_id,omitempty"`
	UserID             bson.ObjectID       `json:"userId" bson:"user_id"`
	NeighborhoodID     bson.ObjectID       `json:"neighborhoodId" bson:"neighborhood_id"`
	Text               string              `json:"text" bson:"text"`
	ImageURL           string              `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	CommentCount       int                 `json:"commentCount" bson:"comment_count"`
	ReportCount        int                 `json:"reportCount" bson:"report_count"`
	Moderation         ModerationRecord    `json:"moderation" bson:"moderation"`
	IsVisible          bool                `json:"isVisible" bson:"is_visible"`
	NeedsRevision      bool                `json:"needsRevision" bson:"needs_revision"`
	RevisionSuggestion string              `json:"revisionSuggestion,omitempty" bson:"revision_suggestion,omitempty"`
	BusinessDetection  BusinessDetection   `json:"businessDetection" bson:"business_detection"`
	ClassifierBusiness *ClassifierBusiness `json:"classifierBusiness,omitempty" bson:"classifier_business,omitempty"`
	CreatedAt          time.Time           `json:"createdAt" bson:"created_at"`
	UpdatedAt          time.Time           `json:"updatedAt" bson:"updated_at"`
}

// VisibleTo reports whether a user can see p. Authors always see their own
// posts; everyone else only sees visible posts of their own neighborhood.
func (p *Post) VisibleTo(userID, neighborhoodID bson.ObjectID) bool {
	if p == nil {
		return false
	}
	if p.UserID == userID {
		return true
	}
	return p.IsVisible && p.NeighborhoodID == neighborhoodID
}

// OpenToNeighbors is true for visible posts of the given neighborhood, the
// only posts neighbors may comment on or report.
func (p *Post) OpenToNeighbors(neighborhoodID bson.ObjectID) bool {
	return p != nil && p.IsVisible && p.NeighborhoodID == neighborhoodID
}
