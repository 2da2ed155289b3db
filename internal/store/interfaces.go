package store

import (
	"context"
	"time"

	"github.com/tutorhub/tutorhub-backend/types"
)

// TestimonialStore is the record store port for testimonials. Implementations
// assign ids and timestamps on Insert; callers never set them.
type TestimonialStore interface {
	// FindAll returns every testimonial not marked for deletion, newest first.
	// Records sharing a createdAt are ordered by id descending.
	FindAll(ctx context.Context) ([]*types.Testimonial, error)

	// FindByID returns a testimonial, including one marked for deletion.
	FindByID(ctx context.Context, id string) (*types.Testimonial, error)

	// Insert stores a new testimonial and returns it with id and timestamps set.
	Insert(ctx context.Context, t *types.Testimonial) (*types.Testimonial, error)

	// DeleteByID removes a testimonial. ErrNotFound if nothing was removed.
	DeleteByID(ctx context.Context, id string) error

	// MarkForDeletion flags a testimonial so it disappears from FindAll while
	// its blob and row are being removed.
	MarkForDeletion(ctx context.Context, id string, at time.Time) error

	// FindMarkedForDeletion lists testimonials marked at or before the cutoff.
	FindMarkedForDeletion(ctx context.Context, cutoff time.Time) ([]*types.Testimonial, error)

	// Ping checks connectivity for health reporting.
	Ping(ctx context.Context) error
}
