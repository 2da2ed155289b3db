package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "github.com/tutorhub/tutorhub-backend/errors"
	"github.com/tutorhub/tutorhub-backend/internal/store"
	"github.com/tutorhub/tutorhub-backend/logger"
	"github.com/tutorhub/tutorhub-backend/types"
	"go.uber.org/zap"
)

// AllowedImageTypes are the sniffed MIME types accepted for testimonial images.
var AllowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
	"image/heic": true,
	"image/heif": true,
}

// BlobGateway stores images and removes them by URL.
type BlobGateway interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, url string)
}

// KeyGenerator produces unique object keys for uploads.
type KeyGenerator interface {
	Generate(filename string) string
}

// TestimonialService implements the testimonial lifecycle: create with an
// optional image, list, and delete with blob cleanup.
type TestimonialService struct {
	store       store.TestimonialStore
	blobs       BlobGateway
	keys        KeyGenerator
	validator   *Validator
	placeholder string
	now         func() time.Time
	log         *zap.SugaredLogger
}

// NewTestimonialService creates a new testimonial service.
func NewTestimonialService(s store.TestimonialStore, blobs BlobGateway, keys KeyGenerator, placeholder string) *TestimonialService {
	return &TestimonialService{
		store:       s,
		blobs:       blobs,
		keys:        keys,
		validator:   NewValidator(),
		placeholder: placeholder,
		now:         time.Now,
		log:         logger.GetLogger().With("component", "testimonial_service"),
	}
}

// List returns every live testimonial, newest first.
func (s *TestimonialService) List(ctx context.Context) ([]*types.Testimonial, error) {
	testimonials, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return testimonials, nil
}

// Create validates the fields, uploads the image if one is attached and
// inserts the record. The image URL is always chosen here: either the
// uploaded blob's URL or the placeholder.
func (s *TestimonialService) Create(ctx context.Context, in types.TestimonialCreate, image *types.ImageUpload) (*types.Testimonial, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Quote = strings.TrimSpace(in.Quote)
	in.Designation = strings.TrimSpace(in.Designation)

	if msgs := s.validator.FieldErrors(in); len(msgs) > 0 {
		return nil, apperrors.ValidationFailed(strings.Join(msgs, "; "), "")
	}
	if image != nil && !AllowedImageTypes[image.ContentType] {
		return nil, apperrors.ValidationFailed(
			fmt.Sprintf("image type %s is not allowed", image.ContentType),
			"allowed: jpeg, png, webp, gif, heic, heif",
		)
	}

	imageURL := s.placeholder
	uploaded := false
	if image != nil {
		key := s.keys.Generate(image.Filename)
		url, err := s.blobs.Put(ctx, key, image.Content, image.Size, image.ContentType)
		if err != nil {
			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) {
				err = apperrors.UploadFailed(err)
			}
			return nil, err
		}
		imageURL = url
		uploaded = true
	}

	created, err := s.store.Insert(ctx, &types.Testimonial{
		Name:        in.Name,
		Quote:       in.Quote,
		Designation: types.Designation(in.Designation),
		ImageURL:    imageURL,
	})
	if err != nil {
		if uploaded {
			s.blobs.Delete(ctx, imageURL)
		}
		return nil, apperrors.NewDatabaseError(err)
	}

	s.log.Infow("Created testimonial", "id", created.ID, "designation", created.Designation, "hasImage", uploaded)
	return created, nil
}

// Delete removes a testimonial and its image. The record is marked first so
// it drops out of List immediately; the blob is removed best-effort; then the
// row is deleted. A crash between steps leaves a marked record that Reconcile
// finishes later.
func (s *TestimonialService) Delete(ctx context.Context, id string) error {
	t, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Testimonial", id)
		}
		return apperrors.NewDatabaseError(err)
	}

	if err := s.store.MarkForDeletion(ctx, id, s.now()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Testimonial", id)
		}
		return apperrors.NewDatabaseError(err)
	}

	s.deleteImage(ctx, t)

	if err := s.store.DeleteByID(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		return apperrors.NewDatabaseError(err)
	}

	s.log.Infow("Deleted testimonial", "id", id)
	return nil
}

// Reconcile finishes deletions that were marked at least olderThan ago and
// returns how many records it removed. Failures are collected and the sweep
// continues with the next record.
func (s *TestimonialService) Reconcile(ctx context.Context, olderThan time.Duration) (int, error) {
	pending, err := s.store.FindMarkedForDeletion(ctx, s.now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("failed to list pending deletions: %w", err)
	}

	var (
		removed int
		errs    []error
	)
	for _, t := range pending {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		s.deleteImage(ctx, t)
		if err := s.store.DeleteByID(ctx, t.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			s.log.Warnw("Failed to finish pending deletion", "id", t.ID, "error", err)
			errs = append(errs, fmt.Errorf("delete %s: %w", t.ID, err))
			continue
		}
		removed++
	}

	s.log.Infow("Reconciled pending deletions", "found", len(pending), "removed", removed)
	return removed, errors.Join(errs...)
}

func (s *TestimonialService) deleteImage(ctx context.Context, t *types.Testimonial) {
	if t.ImageURL == "" || t.ImageURL == s.placeholder {
		return
	}
	s.blobs.Delete(ctx, t.ImageURL)
}
