// Command seed-admin creates the administrator account from ADMIN_EMAIL,
// ADMIN_PASSWORD and ADMIN_NAME unless that email is already registered.
package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"phoneshop/internal/auth"
	"phoneshop/internal/config"
	"phoneshop/internal/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stores, closeStores, err := database.OpenStores(ctx, cfg.StoreDriver, cfg.MongoURI, cfg.DBName, logger)
	if err != nil {
		logger.Fatal("open stores", zap.Error(err))
	}
	defer closeStores(context.Background())

	svc := auth.NewService(stores.Users, auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL), logger)
	created, err := svc.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name)
	if err != nil {
		logger.Fatal("seed admin", zap.Error(err))
	}

	if created {
		logger.Info("admin created", zap.String("email", cfg.Admin.Email))
		return
	}
	logger.Info("admin already exists", zap.String("email", cfg.Admin.Email))
}
