package sqlitestore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutorhub/tutorhub-backend/internal/store"
	"github.com/tutorhub/tutorhub-backend/types"
)

func openMemoryStore(t *testing.T) *TestimonialStore {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestimonial(name string, d types.Designation) *types.Testimonial {
	return &types.Testimonial{
		Name:        name,
		Quote:       "Quote from " + name,
		Designation: d,
		ImageURL:    "/images/placeholder-avatar.png",
	}
}

func TestTestimonialStore_InsertAndFind(t *testing.T) {
	s := openMemoryStore(t)
	ctx := context.Background()

	created, err := s.Insert(ctx, newTestimonial("Sara", types.DesignationStudent))
	require.NoError(t, err)
	_, err = uuid.Parse(created.ID)
	assert.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, types.DesignationStudent, got.Designation)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
	assert.Nil(t, got.DeletionRequestedAt)

	_, err = s.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.FindByID(ctx, "not-an-id")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTestimonialStore_FindAllOrdering(t *testing.T) {
	s := openMemoryStore(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	// Inserted out of chronological order; two share a timestamp.
	stamps := []time.Time{base.Add(2 * time.Hour), base, base.Add(5 * time.Hour), base.Add(2 * time.Hour)}
	ids := []string{
		"00000000-0000-4000-8000-000000000001",
		"00000000-0000-4000-8000-000000000002",
		"00000000-0000-4000-8000-000000000003",
		"00000000-0000-4000-8000-000000000004",
	}
	for i := range stamps {
		stamp, id := stamps[i], ids[i]
		s.now = func() time.Time { return stamp }
		s.newID = func() string { return id }
		_, err := s.Insert(ctx, newTestimonial(fmt.Sprintf("t%d", i), types.DesignationParent))
		require.NoError(t, err)
	}

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)

	var gotIDs []string
	for _, tm := range all {
		gotIDs = append(gotIDs, tm.ID)
	}
	assert.Equal(t, []string{ids[2], ids[3], ids[0], ids[1]}, gotIDs)
}

func TestTestimonialStore_DeletionWorkflow(t *testing.T) {
	s := openMemoryStore(t)
	ctx := context.Background()

	keep, err := s.Insert(ctx, newTestimonial("Keep", types.DesignationStudent))
	require.NoError(t, err)
	drop, err := s.Insert(ctx, newTestimonial("Drop", types.DesignationParent))
	require.NoError(t, err)

	markedAt := time.Now().UTC()
	require.NoError(t, s.MarkForDeletion(ctx, drop.ID, markedAt))
	// A second mark keeps the first timestamp.
	require.NoError(t, s.MarkForDeletion(ctx, drop.ID, markedAt.Add(time.Hour)))

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, keep.ID, all[0].ID)

	stillThere, err := s.FindByID(ctx, drop.ID)
	require.NoError(t, err)
	require.NotNil(t, stillThere.DeletionRequestedAt)
	assert.True(t, markedAt.Equal(*stillThere.DeletionRequestedAt))

	pending, err := s.FindMarkedForDeletion(ctx, markedAt.Add(-time.Second))
	require.NoError(t, err)
	assert.Empty(t, pending)

	pending, err = s.FindMarkedForDeletion(ctx, markedAt)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, drop.ID, pending[0].ID)

	require.NoError(t, s.DeleteByID(ctx, drop.ID))
	assert.ErrorIs(t, s.DeleteByID(ctx, drop.ID), store.ErrNotFound)
	assert.ErrorIs(t, s.MarkForDeletion(ctx, drop.ID, markedAt), store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteByID(ctx, "garbage"), store.ErrNotFound)
}

func TestTestimonialStore_SchemaRejectsUnknownDesignation(t *testing.T) {
	s := openMemoryStore(t)
	_, err := s.Insert(context.Background(), newTestimonial("Sara", types.Designation("teacher")))
	assert.Error(t, err)
}

func TestTestimonialStore_Ping(t *testing.T) {
	s := openMemoryStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func newMockStore(t *testing.T) (*TestimonialStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewTestimonialStore(db), mock
}

func TestTestimonialStore_DatabaseErrors(t *testing.T) {
	ctx := context.Background()
	dbErr := errors.New("database is locked")
	id := uuid.NewString()

	t.Run("find all", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery("SELECT (.+) FROM testimonials").WillReturnError(dbErr)

		_, err := s.FindAll(ctx)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("find by id", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery("SELECT (.+) FROM testimonials WHERE id = ?").WithArgs(id).WillReturnError(dbErr)

		_, err := s.FindByID(ctx, id)
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec("INSERT INTO testimonials").WillReturnError(dbErr)

		got, err := s.Insert(ctx, newTestimonial("Sara", types.DesignationStudent))
		assert.ErrorIs(t, err, dbErr)
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec("DELETE FROM testimonials WHERE id = ?").WithArgs(id).WillReturnError(dbErr)

		assert.ErrorIs(t, s.DeleteByID(ctx, id), dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rows affected unavailable", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec("DELETE FROM testimonials").
			WithArgs(id).
			WillReturnResult(sqlmock.NewErrorResult(errors.New("driver does not support RowsAffected")))

		err := s.DeleteByID(ctx, id)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("mark", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec("UPDATE testimonials").WillReturnError(dbErr)

		assert.ErrorIs(t, s.MarkForDeletion(ctx, id, time.Now()), dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("scan failure", func(t *testing.T) {
		s, mock := newMockStore(t)
		rows := sqlmock.NewRows([]string{"id", "name", "quote", "designation", "image_url", "created_at", "updated_at", "deletion_requested_at"}).
			AddRow(id, "Sara", "Quote", "student", "/images/placeholder-avatar.png", "not-a-number", int64(1), nil)
		mock.ExpectQuery("SELECT (.+) FROM testimonials").WillReturnRows(rows)

		_, err := s.FindAll(ctx)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
