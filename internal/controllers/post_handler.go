package controllers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/ualiu/neighbours-only/dto"
	mid "github.com/ualiu/neighbours-only/internal/middleware"
	"github.com/ualiu/neighbours-only/internal/models"
	"github.com/ualiu/neighbours-only/internal/moderation"
	"github.com/ualiu/neighbours-only/internal/repository"
	"github.com/ualiu/neighbours-only/internal/services"
)

type PostCreator interface {
	CreatePost(ctx context.Context, author *models.User, text, imageURL string) (*models.Post, moderation.Verdict, error)
}

type PostFinder interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Post, error)
}

type PostDeleter interface {
	Delete(ctx context.Context, postID, authorID bson.ObjectID) error
}

type PostHandler struct {
	Service PostCreator
	Posts   PostFinder
	Deleter PostDeleter
	Log     *zap.Logger
}

// CreatePost godoc
// @Summary Create a post
// @Description Moderates the text and stores the post with its verdict
// @Tags posts
// @Accept json
// @Produce json
// @Param body body dto.CreatePostReq true "Post body"
// @Success 201 {object} dto.CreatePostResp
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /posts [post]
func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	viewer, err := mid.Viewer(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "unauthorized"})
	}

	var body dto.CreatePostReq
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid body"})
	}

	post, verdict, err := h.Service.CreatePost(c.UserContext(), viewer, body.Text, body.ImageURL)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTextRequired), errors.Is(err, services.ErrTextTooLong):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		mid.Logger(c, h.Log).Error("create post failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed to create post"})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CreatePostResp{
		Post:               *post,
		UserMessage:        userMessage(post, verdict),
		RevisionSuggestion: post.RevisionSuggestion,
	})
}

func userMessage(p *models.Post, v moderation.Verdict) string {
	if v.UserMessage != "" {
		return v.UserMessage
	}
	switch p.Moderation.Status {
	case models.StatusFlagged:
		return "Your post is being reviewed and will appear once approved."
	case models.StatusRejected:
		return "Your post could not be published. Please revise it and try again."
	}
	return ""
}

// GetPost godoc
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param postId path string true "Post ID"
// @Success 200 {object} models.Post
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /posts/{postId} [get]
func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	viewer, err := mid.Viewer(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "unauthorized"})
	}
	postID, err := bson.ObjectIDFromHex(c.Params("postId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid postId"})
	}

	post, err := h.Posts.FindByID(c.UserContext(), postID)
	if err != nil {
		if errors.Is(err, moderation.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "post not found"})
		}
		mid.Logger(c, h.Log).Error("get post failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed to load post"})
	}
	if !post.VisibleTo(viewer.ID, viewer.NeighborhoodID) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "post not found"})
	}
	return c.JSON(post)
}

// DeletePost godoc
// @Summary Delete own post
// @Description Removes the post with its comments and reports
// @Tags posts
// @Param postId path string true "Post ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /posts/{postId} [delete]
func (h *PostHandler) DeletePost(c *fiber.Ctx) error {
	viewer, err := mid.Viewer(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "unauthorized"})
	}
	postID, err := bson.ObjectIDFromHex(c.Params("postId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid postId"})
	}

	err = h.Deleter.Delete(c.UserContext(), postID, viewer.ID)
	switch {
	case err == nil:
		return c.SendStatus(fiber.StatusNoContent)
	case errors.Is(err, moderation.ErrPostNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "post not found"})
	case errors.Is(err, repository.ErrNotAuthor):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "not your post"})
	}
	mid.Logger(c, h.Log).Error("delete post failed", zap.String("post_id", postID.Hex()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed to delete post"})
}
