package dto

import "github.com/ualiu/neighbours-only/internal/models"

type CreatePostReq struct {
	Text     string `json:"text" form:"text" validate:"required,min=1,max=2000"`
	ImageURL string `json:"imageUrl" form:"imageUrl"`
}

// CreatePostResp carries the stored post plus what to tell its author.
type CreatePostResp struct {
	Post               models.Post `json:"post"`
	UserMessage        string      `json:"userMessage,omitempty"`
	RevisionSuggestion string      `json:"revisionSuggestion,omitempty"`
}

type FeedResp struct {
	Items      []models.Post `json:"items"`
	NextCursor *string       `json:"next_cursor" example:"eyJjcmVhdGVkQXQiOjE3MDAwMDAwMDAwMDAsImlkIjoiNjhlNjMwMDJkZjIyNWNkOTU1MTczZGIxIn0"`
	HasMore    bool          `json:"has_more" example:"true"`
}

type LearningListResp struct {
	Items []models.ModerationLearning `json:"items"`
	Count int                         `json:"count" example:"3"`
}
