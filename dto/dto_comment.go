package dto

import "github.com/ualiu/neighbours-only/internal/models"

type CreateCommentReq struct {
	Text string `json:"text" form:"text" validate:"required,min=1,max=500"`
}

type ListCommentsResp struct {
	Comments   []models.Comment `json:"comments"`
	NextCursor *string          `json:"next_cursor"`
	HasMore    bool             `json:"has_more" example:"false"`
}
