// Package main loads testimonials from a YAML fixture file. Records go
// through the normal create path, so they are validated and get the
// placeholder image.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tutorhub/tutorhub-backend/config"
	"github.com/tutorhub/tutorhub-backend/internal/blob"
	"github.com/tutorhub/tutorhub-backend/internal/bootstrap"
	"github.com/tutorhub/tutorhub-backend/logger"
	testimonialSvc "github.com/tutorhub/tutorhub-backend/models/testimonial/service"
	"github.com/tutorhub/tutorhub-backend/types"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// fixtureFile is the on-disk format:
//
//	testimonials:
//	  - name: Sara
//	    quote: My grades went up.
//	    designation: student
type fixtureFile struct {
	Testimonials []fixture `yaml:"testimonials"`
}

type fixture struct {
	Name        string `yaml:"name"`
	Quote       string `yaml:"quote"`
	Designation string `yaml:"designation"`
}

type creator interface {
	Create(ctx context.Context, in types.TestimonialCreate, image *types.ImageUpload) (*types.Testimonial, error)
}

func main() {
	file := flag.String("file", "fixtures/testimonials.yaml", "YAML fixture file")
	flag.Parse()

	logger.InitLogger()
	log := logger.GetLogger()
	defer func() { _ = logger.Close() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Failed to open fixture file: %v", err)
	}
	defer f.Close()

	fixtures, err := loadFixtures(f)
	if err != nil {
		log.Fatalf("Failed to parse fixture file: %v", err)
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

	svc := testimonialSvc.NewTestimonialService(testimonialStore, gateway, blob.NewKeyGenerator(cfg.Storage.CollectionFolder), config.PlaceholderImagePath)
	created := seed(ctx, log, svc, fixtures)
	log.Infow("Seeding complete", "created", created, "total", len(fixtures))
}

func loadFixtures(r io.Reader) ([]fixture, error) {
	var file fixtureFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode fixtures: %w", err)
	}
	return file.Testimonials, nil
}

// seed creates each fixture and returns how many succeeded. Invalid entries
// are logged and skipped.
func seed(ctx context.Context, log *zap.SugaredLogger, svc creator, fixtures []fixture) int {
	created := 0
	for i, fx := range fixtures {
		t, err := svc.Create(ctx, types.TestimonialCreate{
			Name:        fx.Name,
			Quote:       fx.Quote,
			Designation: fx.Designation,
		}, nil)
		if err != nil {
			log.Warnw("Skipping fixture", "index", i, "name", fx.Name, "error", err)
			continue
		}
		log.Debugw("Seeded testimonial", "id", t.ID, "name", t.Name)
		created++
	}
	return created
}
