package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"phoneshop/internal/auth"
	"phoneshop/internal/cart"
	"phoneshop/internal/catalog"
	"phoneshop/internal/config"
	"phoneshop/internal/database"
	"phoneshop/internal/events"
	"phoneshop/internal/handlers"
	"phoneshop/internal/middleware"
	"phoneshop/internal/orders"
	"phoneshop/internal/reporting"
	"phoneshop/internal/upload"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, closeStores, err := database.OpenStores(ctx, cfg.StoreDriver, cfg.MongoURI, cfg.DBName, logger)
	if err != nil {
		logger.Fatal("open stores", zap.Error(err))
	}
	defer func() {
		if err := closeStores(context.Background()); err != nil {
			logger.Warn("close stores", zap.Error(err))
		}
	}()

	var publisher events.Publisher = events.Nop{}
	if cfg.RabbitMQURL != "" {
		rmq, err := events.NewRabbitMQ(cfg.RabbitMQURL, logger)
		if err != nil {
			logger.Warn("order events disabled", zap.Error(err))
		} else {
			publisher = rmq
		}
	}
	defer publisher.Close()

	uploads, err := upload.NewStorage(cfg.UploadDir, logger)
	if err != nil {
		logger.Fatal("upload storage", zap.Error(err))
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	deps := handlers.Deps{
		Auth:    auth.NewService(stores.Users, tokens, logger),
		Tokens:  tokens,
		Catalog: catalog.NewService(stores.Products, logger),
		Cart:    cart.NewService(stores, logger),
		Orders: orders.NewService(stores, publisher, logger,
			orders.WithEnforcedTransitions(cfg.EnforceStatusTransitions)),
		Reporting: reporting.NewService(stores, logger),
		Uploads:   uploads,
		Logger:    logger,
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))
	r.MaxMultipartMemory = 8 << 20

	handlers.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("api server listening", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
