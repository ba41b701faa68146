package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/studyboard/backend/internal/apperrors"
	"github.com/studyboard/backend/internal/middleware"
	"github.com/studyboard/backend/internal/models"
	"github.com/studyboard/backend/internal/services"
	"github.com/studyboard/backend/pkg/response"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// RegisterRoutes registers comment routes. Reads are open, writes need auth.
func (h *CommentHandler) RegisterRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.POST("/comments", h.CreateComment, requireAuth)
	g.PUT("/comments/:comment_id", h.UpdateComment, requireAuth)
	g.DELETE("/comments/:comment_id", h.DeleteComment, requireAuth)
	g.GET("/posts/:post_id/comments", h.ListRootComments)
	g.GET("/posts/:post_id/comments/:comment_id/replies", h.ListReplies)
	g.GET("/posts/:post_id/comments/:comment_id/replies/preview", h.ReplyPreview)
	g.GET("/posts/:post_id/comments/:comment_id/replies/count", h.ReplyCount)
	g.GET("/posts/:post_id/comments/stats", h.Stats)
}

// CreateComment creates a root comment or a reply on an active post.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidRequest.Wrap(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.commentService.CreateComment(c.Request().Context(), req, middleware.Username(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, response.SaveOK(comment))
}

// UpdateComment edits a comment's content. Only the author may edit.
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidRequest.Wrap(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.commentService.UpdateComment(c.Request().Context(), c.Param("comment_id"), req.Content, middleware.Username(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response.UpdateOK(comment))
}

// DeleteComment soft-deletes a comment, cascading over its replies and likes.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	if err := h.commentService.DeleteComment(c.Request().Context(), c.Param("comment_id"), middleware.Username(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response.DeleteOK())
}

// ListRootComments returns a page of root comments for a post.
func (h *CommentHandler) ListRootComments(c echo.Context) error {
	page, size := pageParams(c)
	result, err := h.commentService.RootComments(c.Request().Context(), c.Param("post_id"), page, size, c.QueryParam("sort"), middleware.Username(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response.OK(result))
}

// ListReplies returns a page of replies under a root comment.
func (h *CommentHandler) ListReplies(c echo.Context) error {
	page, size := pageParams(c)
	result, err := h.commentService.Replies(c.Request().Context(), c.Param("post_id"), c.Param("comment_id"), page, size, middleware.Username(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response.OK(result))
}

// ReplyPreview returns the first few replies under a root comment.
func (h *CommentHandler) ReplyPreview(c echo.Context) error {
	preview, err := h.commentService.ReplyPreview(c.Request().Context(), c.Param("post_id"), c.Param("comment_id"), middleware.Username(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response.OK(preview))
}

// ReplyCount returns the number of active replies under a root comment.
func (h *CommentHandler) ReplyCount(c echo.Context) error {
	stats, err := h.commentService.ReplyCount(c.Request().Context(), c.Param("post_id"), c.Param("comment_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response.OK(stats))
}

// Stats returns the total active comment count for a post.
func (h *CommentHandler) Stats(c echo.Context) error {
	stats, err := h.commentService.Stats(c.Request().Context(), c.Param("post_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response.OK(stats))
}

// pageParams reads page and size query parameters, leaving range checks to
// the paging layer. Unparseable values fall back to the defaults.
func pageParams(c echo.Context) (int, int) {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil {
		page = 0
	}
	size, err := strconv.Atoi(c.QueryParam("size"))
	if err != nil {
		size = 0
	}
	return page, size
}
