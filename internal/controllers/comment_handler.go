package controllers

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/ualiu/neighbours-only/config"
	"github.com/ualiu/neighbours-only/dto"
	mid "github.com/ualiu/neighbours-only/internal/middleware"
	"github.com/ualiu/neighbours-only/internal/models"
	"github.com/ualiu/neighbours-only/internal/moderation"
	"github.com/ualiu/neighbours-only/internal/repository"
)

type CommentStore interface {
	Create(ctx context.Context, c *models.Comment) error
	ListByPost(ctx context.Context, postID bson.ObjectID, cursorStr string, limit int64) ([]models.Comment, *string, error)
	Delete(ctx context.Context, commentID, userID bson.ObjectID) error
}

type CommentHandler struct {
	Posts    PostFinder
	Comments CommentStore
	Log      *zap.Logger
}

// CreateComment godoc
// @Summary Comment on a post
// @Description Only visible posts of the viewer's neighborhood take comments
// @Tags comments
// @Accept json
// @Produce json
// @Param postId path string true "Post ID"
// @Param body body dto.CreateCommentReq true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /posts/{postId}/comments [post]
func (h *CommentHandler) CreateComment(c *fiber.Ctx) error {
	viewer, err := mid.Viewer(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "unauthorized"})
	}
	postID, err := bson.ObjectIDFromHex(c.Params("postId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid postId"})
	}

	var body dto.CreateCommentReq
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid body"})
	}
	text := strings.TrimSpace(body.Text)
	if text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "text required"})
	}
	if utf8.RuneCountInString(text) > models.MaxCommentLength {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "comment must be 500 characters or less"})
	}

	post, err := h.Posts.FindByID(c.UserContext(), postID)
	if err != nil && !errors.Is(err, moderation.ErrPostNotFound) {
		mid.Logger(c, h.Log).Error("load post failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed to add comment"})
	}
	if err != nil || !post.OpenToNeighbors(viewer.NeighborhoodID) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "post not found"})
	}

	now := time.Now().UTC()
	comment := &models.Comment{
		ID:             bson.NewObjectID(),
		PostID:         post.ID,
		UserID:         viewer.ID,
		NeighborhoodID: post.NeighborhoodID,
		Text:           text,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := h.Comments.Create(c.UserContext(), comment); err != nil {
		if errors.Is(err, moderation.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "post not found"})
		}
		mid.Logger(c, h.Log).Error("create comment failed", zap.String("post_id", postID.Hex()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed to add comment"})
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// ListComments godoc
// @Summary Comments of a post
// @Description Oldest first with cursor pagination
// @Tags comments
// @Produce json
// @Param postId path string true "Post ID"
// @Param limit query int false "page size (default 50, max 200)"
// @Param cursor query string false "cursor from the previous page"
// @Success 200 {object} dto.ListCommentsResp
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /posts/{postId}/comments [get]
func (h *CommentHandler) ListComments(c *fiber.Ctx) error {
	viewer, err := mid.Viewer(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "unauthorized"})
	}
	postID, err := bson.ObjectIDFromHex(c.Params("postId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid postId"})
	}

	post, err := h.Posts.FindByID(c.UserContext(), postID)
	if err != nil && !errors.Is(err, moderation.ErrPostNotFound) {
		mid.Logger(c, h.Log).Error("load post failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed to load comments"})
	}
	if err != nil || !post.VisibleTo(viewer.ID, viewer.NeighborhoodID) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "post not found"})
	}

	limit := c.QueryInt("limit", config.DefaultLimitComments)
	if limit <= 0 {
		limit = config.DefaultLimitComments
	}
	if limit > config.MaxLimitComments {
		limit = config.MaxLimitComments
	}

	items, next, err := h.Comments.ListByPost(c.UserContext(), postID, c.Query("cursor"), int64(limit))
	if err != nil {
		if errors.Is(err, repository.ErrInvalidCursor) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid cursor"})
		}
		mid.Logger(c, h.Log).Error("list comments failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed to load comments"})
	}
	if items == nil {
		items = []models.Comment{}
	}
	return c.JSON(dto.ListCommentsResp{Comments: items, NextCursor: next, HasMore: next != nil})
}

// DeleteComment godoc
// @Summary Delete own comment
// @Tags comments
// @Param commentId path string true "Comment ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /comments/{commentId} [delete]
func (h *CommentHandler) DeleteComment(c *fiber.Ctx) error {
	viewer, err := mid.Viewer(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "unauthorized"})
	}
	commentID, err := bson.ObjectIDFromHex(c.Params("commentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid commentId"})
	}

	err = h.Comments.Delete(c.UserContext(), commentID, viewer.ID)
	switch {
	case err == nil:
		return c.SendStatus(fiber.StatusNoContent)
	case errors.Is(err, repository.ErrCommentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "comment not found"})
	case errors.Is(err, repository.ErrNotAuthor):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "not your comment"})
	}
	mid.Logger(c, h.Log).Error("delete comment failed", zap.String("comment_id", commentID.Hex()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed to delete comment"})
}
