package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/argumint/debate-backend/internal/config"
	"github.com/argumint/debate-backend/internal/httpapi"
	"github.com/argumint/debate-backend/internal/hub"
	"github.com/argumint/debate-backend/internal/judge"
	"github.com/argumint/debate-backend/internal/store"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	cfg := config.FromEnv()
	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}

	st, err := store.NewGorm(db)
	if err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}

	j := judge.New(cfg.JudgeAPIKey, cfg.JudgeBaseURL, cfg.JudgeModel)

	ctx := context.Background()
	h := hub.NewHub(ctx, st, j, logger)

	handler := httpapi.SetupRoutes(h, st, j, cfg.TypingInterval, logger)

	logger.Info("listening", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}
