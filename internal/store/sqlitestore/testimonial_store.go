// Package sqlitestore keeps testimonials in an embedded SQLite database,
// used for local development and single-node deployments.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tutorhub/tutorhub-backend/internal/store"
	"github.com/tutorhub/tutorhub-backend/types"
	_ "modernc.org/sqlite"
)

var _ store.TestimonialStore = (*TestimonialStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS testimonials (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL CHECK (trim(name) <> ''),
	quote TEXT NOT NULL CHECK (trim(quote) <> ''),
	designation TEXT NOT NULL CHECK (designation IN ('student', 'parent')),
	image_url TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	deletion_requested_at INTEGER
);
CREATE INDEX IF NOT EXISTS idx_testimonials_created_at ON testimonials (created_at DESC, id DESC);
`

const testimonialColumns = `id, name, quote, designation, image_url, created_at, updated_at, deletion_requested_at`

// TestimonialStore implements store.TestimonialStore on database/sql.
// Timestamps are stored as unix nanoseconds.
type TestimonialStore struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

// Open opens (or creates) the database at path and applies the schema.
// ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string) (*TestimonialStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// SQLite allows a single writer; one connection also keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
	}
	return NewTestimonialStore(db), nil
}

// NewTestimonialStore wraps an already-initialised database.
func NewTestimonialStore(db *sql.DB) *TestimonialStore {
	return &TestimonialStore{
		db:    db,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Close closes the underlying database.
func (s *TestimonialStore) Close() error {
	return s.db.Close()
}

func (s *TestimonialStore) FindAll(ctx context.Context) ([]*types.Testimonial, error) {
	query := `SELECT ` + testimonialColumns + ` FROM testimonials
		WHERE deletion_requested_at IS NULL
		ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}
	defer rows.Close()
	return scanTestimonials(rows)
}

func (s *TestimonialStore) FindByID(ctx context.Context, id string) (*types.Testimonial, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, store.ErrNotFound
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+testimonialColumns+` FROM testimonials WHERE id = ?`, id)
	t, err := scanTestimonial(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get testimonial: %w", err)
	}
	return t, nil
}

func (s *TestimonialStore) Insert(ctx context.Context, t *types.Testimonial) (*types.Testimonial, error) {
	now := s.now().UTC()
	created := &types.Testimonial{
		ID:          s.newID(),
		Name:        t.Name,
		Quote:       t.Quote,
		Designation: t.Designation,
		ImageURL:    t.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO testimonials (id, name, quote, designation, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		created.ID, created.Name, created.Quote, string(created.Designation), created.ImageURL,
		now.UnixNano(), now.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert testimonial: %w", err)
	}
	return created, nil
}

func (s *TestimonialStore) DeleteByID(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return store.ErrNotFound
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete testimonial: %w", err)
	}
	return requireAffected(res)
}

func (s *TestimonialStore) MarkForDeletion(ctx context.Context, id string, at time.Time) error {
	if _, err := uuid.Parse(id); err != nil {
		return store.ErrNotFound
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE testimonials
		SET deletion_requested_at = COALESCE(deletion_requested_at, ?), updated_at = ?
		WHERE id = ?`,
		at.UnixNano(), s.now().UnixNano(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark testimonial for deletion: %w", err)
	}
	return requireAffected(res)
}

func (s *TestimonialStore) FindMarkedForDeletion(ctx context.Context, cutoff time.Time) ([]*types.Testimonial, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+testimonialColumns+` FROM testimonials
		WHERE deletion_requested_at IS NOT NULL AND deletion_requested_at <= ?
		ORDER BY deletion_requested_at ASC`,
		cutoff.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials marked for deletion: %w", err)
	}
	defer rows.Close()
	return scanTestimonials(rows)
}

func (s *TestimonialStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTestimonial(row rowScanner) (*types.Testimonial, error) {
	var (
		t                    types.Testimonial
		designation          string
		createdAt, updatedAt int64
		deletionRequestedAt  sql.NullInt64
	)
	if err := row.Scan(&t.ID, &t.Name, &t.Quote, &designation, &t.ImageURL,
		&createdAt, &updatedAt, &deletionRequestedAt); err != nil {
		return nil, err
	}
	t.Designation = types.Designation(designation)
	t.CreatedAt = time.Unix(0, createdAt).UTC()
	t.UpdatedAt = time.Unix(0, updatedAt).UTC()
	if deletionRequestedAt.Valid {
		at := time.Unix(0, deletionRequestedAt.Int64).UTC()
		t.DeletionRequestedAt = &at
	}
	return &t, nil
}

func scanTestimonials(rows *sql.Rows) ([]*types.Testimonial, error) {
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
