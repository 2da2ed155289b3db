package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tutorhub/tutorhub-backend/internal/store"
	"github.com/tutorhub/tutorhub-backend/types"
)

// Ensure TestimonialStore implements store.TestimonialStore
var _ store.TestimonialStore = (*TestimonialStore)(nil)

// DBTX is the subset of pgxpool.Pool used by the store. pgxmock pools satisfy it too.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// TestimonialStore keeps testimonials in the testimonials table.
type TestimonialStore struct {
	db DBTX
}

// NewTestimonialStore creates a new TestimonialStore backed by a pgx pool.
func NewTestimonialStore(db DBTX) *TestimonialStore {
	return &TestimonialStore{db: db}
}

const testimonialColumns = `id, name, quote, designation, image_url, created_at, updated_at, deletion_requested_at`

// FindAll returns live testimonials, newest first.
func (s *TestimonialStore) FindAll(ctx context.Context) ([]*types.Testimonial, error) {
	query := `
		SELECT ` + testimonialColumns + `
		FROM testimonials
		WHERE deletion_requested_at IS NULL
		ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}
	defer rows.Close()

	return scanTestimonials(rows)
}

// FindByID retrieves a testimonial by its ID
func (s *TestimonialStore) FindByID(ctx context.Context, id string) (*types.Testimonial, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, store.ErrNotFound
	}

	query := `
		SELECT ` + testimonialColumns + `
		FROM testimonials
		WHERE id = $1`

	t, err := scanTestimonial(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get testimonial: %w", err)
	}
	return t, nil
}

// Insert creates a testimonial. The database assigns id, created_at and updated_at.
func (s *TestimonialStore) Insert(ctx context.Context, t *types.Testimonial) (*types.Testimonial, error) {
	query := `
		INSERT INTO testimonials (name, quote, designation, image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	created := *t
	created.DeletionRequestedAt = nil
	err := s.db.QueryRow(ctx, query,
		t.Name,
		t.Quote,
		string(t.Designation),
		t.ImageURL,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert testimonial: %w", err)
	}
	return &created, nil
}

// DeleteByID permanently removes a testimonial.
func (s *TestimonialStore) DeleteByID(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return store.ErrNotFound
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete testimonial: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// MarkForDeletion sets deletion_requested_at unless it is already set.
func (s *TestimonialStore) MarkForDeletion(ctx context.Context, id string, at time.Time) error {
	if _, err := uuid.Parse(id); err != nil {
		return store.ErrNotFound
	}

	query := `
		UPDATE testimonials
		SET deletion_requested_at = COALESCE(deletion_requested_at, $2), updated_at = NOW()
		WHERE id = $1`

	tag, err := s.db.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("failed to mark testimonial for deletion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// FindMarkedForDeletion lists testimonials whose deletion started at or before cutoff.
func (s *TestimonialStore) FindMarkedForDeletion(ctx context.Context, cutoff time.Time) ([]*types.Testimonial, error) {
	query := `
		SELECT ` + testimonialColumns + `
		FROM testimonials
		WHERE deletion_requested_at IS NOT NULL AND deletion_requested_at <= $1
		ORDER BY deletion_requested_at ASC`

	rows, err := s.db.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials marked for deletion: %w", err)
	}
	defer rows.Close()

	return scanTestimonials(rows)
}

// Ping checks the database connection.
func (s *TestimonialStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func scanTestimonial(row pgx.Row) (*types.Testimonial, error) {
	var (
		t           types.Testimonial
		designation string
	)
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Quote,
		&designation,
		&t.ImageURL,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.DeletionRequestedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Designation = types.Designation(designation)
	return &t, nil
}

func scanTestimonials(rows pgx.Rows) ([]*types.Testimonial, error) {
	testimonials := make([]*types.Testimonial, 0)
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan testimonial: %w", err)
		}
		testimonials = append(testimonials, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating testimonials: %w", err)
	}
	return testimonials, nil
}
