package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studyboard/backend/internal/apperrors"
	"github.com/studyboard/backend/internal/middleware"
	"github.com/studyboard/backend/internal/models"
	"github.com/studyboard/backend/internal/services"
	"github.com/studyboard/backend/pkg/paging"
	"github.com/studyboard/backend/pkg/response"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeService *services.LikeService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeService *services.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

// RegisterRoutes registers like routes. Toggling requires auth, counts do not.
func (h *LikeHandler) RegisterRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.POST("/likes/:target_type/:target_id/toggle", h.ToggleLike, requireAuth)
	g.GET("/likes/:target_type/:target_id", h.GetLikeInfo)
	g.POST("/likes/:target_type/counts", h.GetBulkCounts)
}

// ToggleLike flips the caller's like on a post or comment.
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	targetType, ok := models.ParseTargetType(c.Param("target_type"))
	if !ok {
		return apperrors.ErrInvalidRequest.WithMessage("unknown target type")
	}
	targetID := c.Param("target_id")
	username := middleware.Username(c)

	info, err := h.likeService.ToggleWithInfo(c.Request().Context(), targetID, targetType, username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response.OK(info))
}

// GetLikeInfo returns the like count and the viewer's like state for a target.
func (h *LikeHandler) GetLikeInfo(c echo.Context) error {
	targetType, ok := models.ParseTargetType(c.Param("target_type"))
	if !ok {
		return apperrors.ErrInvalidRequest.WithMessage("unknown target type")
	}
	targetID := c.Param("target_id")
	username := middleware.Username(c)

	info, err := h.likeService.GetInfo(c.Request().Context(), targetID, targetType, username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response.OK(info))
}

// GetBulkCounts returns like counts for up to 100 targets of one type.
func (h *LikeHandler) GetBulkCounts(c echo.Context) error {
	targetType, ok := models.ParseTargetType(c.Param("target_type"))
	if !ok {
		return apperrors.ErrInvalidRequest.WithMessage("unknown target type")
	}

	var req models.BulkCountRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidRequest.Wrap(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	// Batch size is rejected, not clamped.
	if err := paging.Validate(0, len(req.TargetIDs)); err != nil {
		return err
	}

	counts := h.likeService.GetBulkCounts(c.Request().Context(), req.TargetIDs, targetType)
	return c.JSON(http.StatusOK, response.OK(counts))
}
