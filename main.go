package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tutorhub/tutorhub-backend/config"
	_ "github.com/tutorhub/tutorhub-backend/docs"
	"github.com/tutorhub/tutorhub-backend/handlers"
	"github.com/tutorhub/tutorhub-backend/internal/blob"
	"github.com/tutorhub/tutorhub-backend/internal/bootstrap"
	"github.com/tutorhub/tutorhub-backend/logger"
	testimonialSvc "github.com/tutorhub/tutorhub-backend/models/testimonial/service"
	"github.com/tutorhub/tutorhub-backend/router"
	"github.com/tutorhub/tutorhub-backend/services"
)

func main() {
	// Initialize logger
	logger.InitLogger()
	log := logger.GetLogger()
	defer func() { _ = logger.Close() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	testimonialStore, closeStore, err := bootstrap.OpenStore(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open testimonial store: %v", err)
	}
	defer closeStore()

	gateway, _, err := blob.NewGatewayFromConfig(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize blob storage: %v", err)
	}
	log.Infow("Blob storage ready", "provider", gateway.Provider(), "public_base_url", cfg.Storage.PublicBaseURL)

	redisClient := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}

	testimonialService := testimonialSvc.NewTestimonialService(
		testimonialStore,
		gateway,
		blob.NewKeyGenerator(cfg.Storage.CollectionFolder),
		config.PlaceholderImagePath,
	)

	r := router.SetupRouter(router.Dependencies{
		Config:             cfg,
		TestimonialHandler: handlers.NewTestimonialHandler(testimonialService, cfg.Upload.MaxImageBytes),
		HealthHandler:      handlers.NewHealthHandler(services.NewHealthService(testimonialStore, redisClient, cfg.Server.Version)),
		RedisClient:        redisClient,
		Logger:             log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		log.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}
	log.Info("Server exited")
}
