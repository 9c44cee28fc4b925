package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const MaxCommentLength = 500

type Comment struct {
	ID             bson.ObjectID `json:"id" bson:"_id,omitempty"`
	PostID         bson.ObjectID `json:"postId" bson:"post_id"`
	UserID         bson.ObjectID `json:"userId" bson:"user_id"`
	NeighborhoodID bson.ObjectID `json:"neighborhoodId" bson:"neighborhood_id"`
	Text           string        `json:"text" bson:"text"`
	CreatedAt      time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time     `json:"updatedAt" bson:"updated_at"`
}
