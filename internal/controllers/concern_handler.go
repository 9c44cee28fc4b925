package controllers

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/ualiu/neighbours-only/dto"
	mid "github.com/ualiu/neighbours-only/internal/middleware"
	"github.com/ualiu/neighbours-only/internal/models"
	"github.com/ualiu/neighbours-only/internal/moderation"
)

type ConcernFiler interface {
	FileConcern(ctx context.Context, req moderation.ConcernRequest) (moderation.ConcernResult, error)
}

type ReportLister interface {
	ListByPost(ctx context.Context, postID bson.ObjectID) ([]models.Report, error)
}

type ConcernHandler struct {
	Escalation ConcernFiler
	Posts      PostFinder
	Reports    ReportLister
	Log        *zap.Logger
}

// FileConcern godoc
// @Summary Raise a concern about a post
// @Description One concern per neighbor per post; every threshold-th concern triggers a reanalysis
// @Tags concerns
// @Accept json
// @Produce json
// @Param postId path string true "Post ID"
// @Param body body dto.ConcernReq true "Concern"
// @Success 200 {object} dto.ConcernResp
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /posts/{postId}/concern [post]
func (h *ConcernHandler) FileConcern(c *fiber.Ctx) error {
	viewer, err := mid.Viewer(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "unauthorized"})
	}
	postID, err := bson.ObjectIDFromHex(c.Params("postId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid postId"})
	}

	var body dto.ConcernReq
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid body"})
	}

	res, err := h.Escalation.FileConcern(c.UserContext(), moderation.ConcernRequest{
		PostID:          postID,
		ReportingUserID: viewer.ID,
		NeighborhoodID:  viewer.NeighborhoodID,
		Reason:          models.ReportReason(body.Reason),
		Details:         body.Details,
	})
	if err != nil {
		switch {
		case errors.Is(err, moderation.ErrInvalidReason):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid reason"})
		case errors.Is(err, moderation.ErrDuplicateReport):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "You already sent a concern about this post"})
		case errors.Is(err, moderation.ErrPostNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "post not found"})
		}
		mid.Logger(c, h.Log).Error("file concern failed", zap.String("post_id", postID.Hex()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed to send concern"})
	}

	msg := "Thanks for letting us know. Your concern was sent."
	if res.WillReanalyze {
		msg = fmt.Sprintf("Thanks for letting us know. %d neighbors raised concerns, so this post is being reviewed again.", res.ReportCount)
	}
	return c.JSON(dto.ConcernResp{
		Success:       res.Accepted,
		Message:       msg,
		ReportCount:   res.ReportCount,
		WillReanalyze: res.WillReanalyze,
	})
}

// ListReports godoc
// @Summary Concerns raised about a post
// @Description Only the post's author may list them
// @Tags concerns
// @Produce json
// @Param postId path string true "Post ID"
// @Success 200 {array} models.Report
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /posts/{postId}/reports [get]
func (h *ConcernHandler) ListReports(c *fiber.Ctx) error {
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
		mid.Logger(c, h.Log).Error("load post failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed to load post"})
	}
	if post.UserID != viewer.ID {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "forbidden"})
	}

	reports, err := h.Reports.ListByPost(c.UserContext(), postID)
	if err != nil {
		mid.Logger(c, h.Log).Error("list reports failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed to load reports"})
	}
	return c.JSON(reports)
}
