package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/tutorhub/tutorhub-backend/db"
	"github.com/tutorhub/tutorhub-backend/internal/store"
	"github.com/tutorhub/tutorhub-backend/logger"
	"github.com/tutorhub/tutorhub-backend/types"
)

func setupPostgresContainer(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping PostgreSQL container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	logger.IsTest = true

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("tutorhub_test"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(connStr))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestTestimonialStore_Postgres_Lifecycle(t *testing.T) {
	pool := setupPostgresContainer(t)
	s := NewTestimonialStore(pool)
	ctx := context.Background()

	first, err := s.Insert(ctx, &types.Testimonial{
		Name: "Omar", Quote: "Great", Designation: types.DesignationParent, ImageURL: "/images/placeholder-avatar.png",
	})
	require.NoError(t, err)
	second, err := s.Insert(ctx, &types.Testimonial{
		Name: "Sara", Quote: "رائع", Designation: types.DesignationStudent, ImageURL: "/images/placeholder-avatar.png",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, second.ID)
	assert.False(t, second.CreatedAt.IsZero())

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)

	require.NoError(t, s.MarkForDeletion(ctx, second.ID, time.Now()))
	all, err = s.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	marked, err := s.FindMarkedForDeletion(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, marked, 1)
	assert.Equal(t, second.ID, marked[0].ID)

	require.NoError(t, s.DeleteByID(ctx, second.ID))
	assert.ErrorIs(t, s.DeleteByID(ctx, second.ID), store.ErrNotFound)

	_, err = s.FindByID(ctx, second.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
