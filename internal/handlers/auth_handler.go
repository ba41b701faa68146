package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studyboard/backend/internal/apperrors"
	"github.com/studyboard/backend/internal/models"
	"github.com/studyboard/backend/internal/services"
	"github.com/studyboard/backend/pkg/response"
)

// AuthHandler handles HTTP requests for signup, login and account recovery
type AuthHandler struct {
	authService  *services.AuthService
	emailService *services.EmailService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService, emailService *services.EmailService) *AuthHandler {
	return &AuthHandler{authService: authService, emailService: emailService}
}

// RegisterRoutes registers auth routes. All of them are public.
func (h *AuthHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/auth/signup", h.Signup)
	g.POST("/auth/login", h.Login)
	g.POST("/auth/email/send-code", h.SendVerificationCode)
	g.POST("/auth/email/verify", h.VerifyCode)
	g.POST("/auth/find-username", h.FindUsername)
	g.POST("/auth/reset-password", h.ResetPassword)
}

// Signup registers a new user after email verification.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidRequest.Wrap(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.Signup(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, response.SaveOK(echo.Map{"username": user.Username}))
}

// Login authenticates a user and returns a token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidRequest.Wrap(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response.OK(result))
}

// SendVerificationCode mails a verification code to an email address.
func (h *AuthHandler) SendVerificationCode(c echo.Context) error {
	var req models.SendCodeRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidRequest.Wrap(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.emailService.SendVerificationCode(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response.OK(nil))
}

// VerifyCode checks a verification code without consuming it for signup.
func (h *AuthHandler) VerifyCode(c echo.Context) error {
	var req models.VerifyCodeRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidRequest.Wrap(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.emailService.CheckCode(c.Request().Context(), req.Email, req.Code); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response.OK(nil))
}

// FindUsername recovers a masked username by verified email.
func (h *AuthHandler) FindUsername(c echo.Context) error {
	var req models.FindUsernameRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidRequest.Wrap(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.authService.FindUsername(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response.OK(result))
}

// ResetPassword mails a temporary password after email verification.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req models.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidRequest.Wrap(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response.OK(nil))
}
