package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ualiu/neighbours-only/config"
	"github.com/ualiu/neighbours-only/dto"
	mid "github.com/ualiu/neighbours-only/internal/middleware"
	"github.com/ualiu/neighbours-only/internal/models"
)

type LearningLister interface {
	List(ctx context.Context, limit int64, changedOnly bool) ([]models.ModerationLearning, error)
}

type LearningHandler struct {
	Repo LearningLister
	Log  *zap.Logger
}

// ListLearning godoc
// @Summary Moderation learning log
// @Description Reanalyses that changed a verdict, newest first. Admin or moderator role only
// @Tags moderation
// @Produce json
// @Param limit query int false "max entries (default 50, max 500)"
// @Param changedOnly query bool false "only entries with a changed decision (default true)"
// @Success 200 {object} dto.LearningListResp
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /moderation/learning [get]
func (h *LearningHandler) ListLearning(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", config.DefaultLimitLearning)
	if limit <= 0 {
		limit = config.DefaultLimitLearning
	}
	if limit > config.MaxLimitLearning {
		limit = config.MaxLimitLearning
	}
	changedOnly := c.QueryBool("changedOnly", true)

	items, err := h.Repo.List(c.UserContext(), int64(limit), changedOnly)
	if err != nil {
		mid.Logger(c, h.Log).Error("list learning failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed to load learning log"})
	}
	return c.JSON(dto.LearningListResp{Items: items, Count: len(items)})
}
