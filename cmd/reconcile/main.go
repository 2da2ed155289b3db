// Package main finishes testimonial deletions that were interrupted between
// marking the record and removing it. Run it from cron; it exits after one sweep.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tutorhub/tutorhub-backend/config"
	"github.com/tutorhub/tutorhub-backend/internal/blob"
	"github.com/tutorhub/tutorhub-backend/internal/bootstrap"
	"github.com/tutorhub/tutorhub-backend/logger"
	testimonialSvc "github.com/tutorhub/tutorhub-backend/models/testimonial/service"
	"go.uber.org/zap"
)

type reconciler interface {
	Reconcile(ctx context.Context, olderThan time.Duration) (int, error)
}

func main() {
	olderThan := flag.Duration("older-than", 15*time.Minute, "Only finish deletions marked at least this long ago")
	timeout := flag.Duration("timeout", 5*time.Minute, "Abort the sweep after this long")
	flag.Parse()

	logger.InitLogger()
	log := logger.GetLogger()
	defer func() { _ = logger.Close() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	testimonialStore, closeStore, err := bootstrap.OpenStore(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open testimonial store: %v", err)
	}
	defer closeStore()

	gateway, _, err := blob.NewGatewayFromConfig(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize blob storage: %v", err)
	}

	svc := testimonialSvc.NewTestimonialService(testimonialStore, gateway, blob.NewKeyGenerator(cfg.Storage.CollectionFolder), config.PlaceholderImagePath)
	if err := run(ctx, log, svc, *olderThan); err != nil {
		closeStore()
		os.Exit(1)
	}
}

func run(ctx context.Context, log *zap.SugaredLogger, r reconciler, olderThan time.Duration) error {
	removed, err := r.Reconcile(ctx, olderThan)
	if err != nil {
		log.Errorw("Reconciliation finished with errors", "removed", removed, "error", err)
		return err
	}
	log.Infow("Reconciliation complete", "removed", removed, "older_than", olderThan.String())
	return nil
}
