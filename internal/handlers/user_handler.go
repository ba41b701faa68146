package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studyboard/backend/internal/middleware"
	"github.com/studyboard/backend/internal/services"
	"github.com/studyboard/backend/pkg/response"
)

// UserHandler handles the my-page endpoints. Everything here is about the
// authenticated caller, so the whole group requires auth.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes registers the my-page routes behind the auth middleware.
func (h *UserHandler) RegisterRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/users/me/stats", h.MyStats, requireAuth)
	g.GET("/users/me/posts", h.MyPosts, requireAuth)
	g.GET("/users/me/comments", h.MyComments, requireAuth)
}

// MyStats returns the caller's post and comment counts.
func (h *UserHandler) MyStats(c echo.Context) error {
	stats, err := h.userService.Stats(c.Request().Context(), middleware.Username(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response.OK(stats))
}

// MyPosts returns a page of the caller's own posts.
func (h *UserHandler) MyPosts(c echo.Context) error {
	page, size := pageParams(c)
	result, err := h.userService.MyPosts(c.Request().Context(), middleware.Username(c), page, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response.OK(result))
}

// MyComments returns a page of the caller's own comments.
func (h *UserHandler) MyComments(c echo.Context) error {
	page, size := pageParams(c)
	result, err := h.userService.MyComments(c.Request().Context(), middleware.Username(c), page, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response.OK(result))
}
