package router

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/studyboard/backend/internal/apperrors"
	"github.com/studyboard/backend/internal/handlers"
	"github.com/studyboard/backend/internal/mail"
	"github.com/studyboard/backend/internal/middleware"
	"github.com/studyboard/backend/internal/models"
	"github.com/studyboard/backend/internal/repositories"
	"github.com/studyboard/backend/internal/services"
	"github.com/studyboard/backend/pkg/config"
	"github.com/studyboard/backend/pkg/response"
)

// SetupMiddleware configures global Echo middleware.
func SetupMiddleware(e *echo.Echo, logger *zap.Logger) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(requestLogger(logger))
	e.HTTPErrorHandler = errorHandler(logger)
}

// SetupRoutes wires repositories, services and handlers onto the server.
func SetupRoutes(e *echo.Echo, cfg *config.Config, db *config.DB, logger *zap.Logger) error {
	if err := db.Postgres.AutoMigrate(&models.User{}); err != nil {
		return err
	}

	mongoDB := db.Mongo.Database(cfg.MongoDBName)

	likeRepo := repositories.NewMongoLikeRepository(mongoDB)
	commentRepo := repositories.NewMongoCommentRepository(mongoDB)
	postRepo := repositories.NewMongoPostRepository(mongoDB)
	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	verificationRepo := repositories.NewRedisVerificationRepository(db.Redis)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := likeRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := commentRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	mailer := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)

	likeService := services.NewLikeService(likeRepo, postRepo, commentRepo, logger)
	commentService := services.NewCommentService(commentRepo, postRepo, likeRepo, logger)
	postService := services.NewPostService(postRepo, commentRepo, likeRepo, logger)
	emailService := services.NewEmailService(verificationRepo, mailer, services.EmailVerificationConfig{
		CodeTTL:        cfg.CodeTTL,
		SendInterval:   cfg.SendInterval,
		MaxVerifyTries: cfg.MaxVerifyTries,
		VerifyLockTTL:  cfg.VerifyLockTTL,
	}, logger)
	authService := services.NewAuthService(userRepo, emailService, mailer, cfg.JWTSecret, cfg.JWTExpiry, logger)
	userService := services.NewUserService(postRepo, commentRepo, postService, commentService, logger)

	e.GET("/health", handlers.HealthCheck)

	api := e.Group("/api/v1")
	api.Use(middleware.OptionalJWTAuth(authService))
	requireAuth := middleware.JWTAuth(authService)

	handlers.NewAuthHandler(authService, emailService).RegisterRoutes(api)
	handlers.NewPostHandler(postService).RegisterRoutes(api, requireAuth)
	handlers.NewCommentHandler(commentService).RegisterRoutes(api, requireAuth)
	handlers.NewLikeHandler(likeService).RegisterRoutes(api, requireAuth)
	handlers.NewUserHandler(userService).RegisterRoutes(api, requireAuth)

	logger.Info("routes configured")
	return nil
}

// errorHandler turns application errors into the shared response envelope.
func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := apperrors.StatusOf(err)
		code := apperrors.CodeOf(err)
		message := apperrors.MessageOf(err)

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
			code = apperrors.ErrInvalidRequest.Code
			if msg, ok := httpErr.Message.(string); ok {
				message = msg
			}
		}

		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Error(err))
		}

		if writeErr := c.JSON(status, response.Error(code, message)); writeErr != nil {
			logger.Error("error response write failed", zap.Error(writeErr))
		}
	}
}

// requestLogger logs one structured line per request.
func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency))
			return nil
		},
	})
}
