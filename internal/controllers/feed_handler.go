package controllers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/ualiu/neighbours-only/config"
	"github.com/ualiu/neighbours-only/dto"
	mid "github.com/ualiu/neighbours-only/internal/middleware"
	"github.com/ualiu/neighbours-only/internal/models"
	"github.com/ualiu/neighbours-only/internal/repository"
)

type FeedLister interface {
	ListVisibleByNeighborhood(ctx context.Context, neighborhoodID bson.ObjectID, cursorStr string, limit int64) ([]models.Post, *string, error)
}

type FeedHandler struct {
	Repo FeedLister
	Log  *zap.Logger
}

// GetFeed godoc
// @Summary Neighborhood feed
// @Description Visible posts of the viewer's neighborhood, newest first
// @Tags feed
// @Produce json
// @Param limit query int false "page size (default 20, max 100)"
// @Param cursor query string false "cursor from the previous page"
// @Success 200 {object} dto.FeedResp
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /feed [get]
func (h *FeedHandler) GetFeed(c *fiber.Ctx) error {
	viewer, err := mid.Viewer(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "unauthorized"})
	}

	limit := c.QueryInt("limit", config.DefaultLimitFeed)
	if limit <= 0 {
		limit = config.DefaultLimitFeed
	}
	if limit > config.MaxLimitFeed {
		limit = config.MaxLimitFeed
	}

	items, next, err := h.Repo.ListVisibleByNeighborhood(c.UserContext(), viewer.NeighborhoodID, c.Query("cursor"), int64(limit))
	if err != nil {
		if errors.Is(err, repository.ErrInvalidCursor) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid cursor"})
		}
		mid.Logger(c, h.Log).Error("load feed failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed to load feed"})
	}
	if items == nil {
		items = []models.Post{}
	}

	return c.JSON(dto.FeedResp{
		Items:      items,
		NextCursor: next,
		HasMore:    next != nil,
	})
}
