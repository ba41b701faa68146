package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/studyboard/backend/internal/router"
	"github.com/studyboard/backend/pkg/config"
	"github.com/studyboard/backend/pkg/logger"
	"github.com/studyboard/backend/validators"
)

func main() {
	// Load .env if present, environment variables win otherwise
	_ = godotenv.Load()

	cfg := config.Load()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	db, err := config.InitDB(cfg)
	if err != nil {
		zlog.Fatal("failed to initialize storage", zap.Error(err))
	}
	defer db.CloseDB()

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e, zlog)
	if err := router.SetupRoutes(e, cfg, db, zlog); err != nil {
		zlog.Fatal("failed to set up routes", zap.Error(err))
	}

	zlog.Info("server starting", zap.String("port", cfg.Port))
	if err := e.Start(":" + cfg.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
