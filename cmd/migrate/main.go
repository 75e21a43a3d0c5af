package main

import (
	"velora-be/internal/config"
	"velora-be/internal/db"
	"velora-be/internal/logger"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.L().Fatal("migrations failed", zap.Error(err))
	}

	logger.L().Info("migrations applied", zap.String("path", cfg.MigrationsPath))
}
