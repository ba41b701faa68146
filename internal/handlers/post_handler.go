package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studyboard/backend/internal/apperrors"
	"github.com/studyboard/backend/internal/middleware"
	"github.com/studyboard/backend/internal/models"
	"github.com/studyboard/backend/internal/services"
	"github.com/studyboard/backend/pkg/response"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postService *services.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// RegisterRoutes registers post routes. Reads are open, writes need auth.
func (h *PostHandler) RegisterRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.POST("/posts", h.CreatePost, requireAuth)
	g.GET("/posts", h.ListPosts)
	g.GET("/posts/search", h.SearchPosts)
	g.GET("/posts/popular", h.PopularPosts)
	g.GET("/posts/:post_id", h.GetPost)
	g.PUT("/posts/:post_id", h.UpdatePost, requireAuth)
	g.DELETE("/posts/:post_id", h.DeletePost, requireAuth)
}

// CreatePost creates a new post.
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidRequest.Wrap(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postService.CreatePost(c.Request().Context(), req, middleware.Username(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, response.SaveOK(post))
}

// GetPost returns one post with its engagement state, counting the view.
func (h *PostHandler) GetPost(c echo.Context) error {
	view, err := h.postService.GetPost(c.Request().Context(), c.Param("post_id"), middleware.Username(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response.OK(view))
}

// ListPosts returns a page of active posts, newest first.
func (h *PostHandler) ListPosts(c echo.Context) error {
	page, size := pageParams(c)
	result, err := h.postService.ListPosts(c.Request().Context(), page, size, middleware.Username(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response.OK(result))
}

// SearchPosts returns a page of active posts matching a keyword.
func (h *PostHandler) SearchPosts(c echo.Context) error {
	keyword := c.QueryParam("keyword")
	if keyword == "" {
		return apperrors.ErrInvalidRequest.WithMessage("keyword is required")
	}
	page, size := pageParams(c)
	result, err := h.postService.SearchPosts(c.Request().Context(), keyword, page, size, middleware.Username(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response.OK(result))
}

// PopularPosts returns the most viewed active posts.
func (h *PostHandler) PopularPosts(c echo.Context) error {
	views, err := h.postService.PopularPosts(c.Request().Context(), middleware.Username(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response.OK(views))
}

// UpdatePost edits a post. Only the author may edit.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidRequest.Wrap(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postService.UpdatePost(c.Request().Context(), c.Param("post_id"), req, middleware.Username(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response.UpdateOK(post))
}

// DeletePost soft-deletes a post, cascading over its comments and likes.
func (h *PostHandler) DeletePost(c echo.Context) error {
	if err := h.postService.DeletePost(c.Request().Context(), c.Param("post_id"), middleware.Username(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response.DeleteOK())
}
