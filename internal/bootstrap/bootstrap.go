// Package bootstrap wires configuration into the concrete record store and
// Redis client shared by the server and the maintenance commands.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/tutorhub/tutorhub-backend/config"
	"github.com/tutorhub/tutorhub-backend/db"
	"github.com/tutorhub/tutorhub-backend/internal/store"
	"github.com/tutorhub/tutorhub-backend/internal/store/mongostore"
	"github.com/tutorhub/tutorhub-backend/internal/store/postgres"
	"github.com/tutorhub/tutorhub-backend/internal/store/sqlitestore"
	"github.com/tutorhub/tutorhub-backend/logger"
)

// OpenStore connects the record store selected by cfg.Driver. The returned
// close function releases the underlying connection. It is non-nil only
// when the error is nil.
func OpenStore(ctx context.Context, cfg *config.DatabaseConfig) (store.TestimonialStore, func(), error) {
	log := logger.GetLogger()

	switch cfg.Driver {
	case config.DriverPostgres:
		if err := db.RunMigrations(cfg.URL()); err != nil {
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		poolConfig, err := config.ConfigurePostgresPool(cfg)
		if err != nil {
			return nil, nil, err
		}
		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create database pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		log.Info("Using Postgres testimonial store")
		return postgres.NewTestimonialStore(pool), pool.Close, nil

	case config.DriverMongo:
		client, err := mongostore.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		s := mongostore.NewTestimonialStore(client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection))
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		log.Infow("Using MongoDB testimonial store", "database", cfg.MongoDatabase, "collection", cfg.MongoCollection)
		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(ctx); err != nil {
				log.Warnw("Failed to disconnect from MongoDB", "error", err)
			}
		}
		return s, closeFn, nil

	case config.DriverSQLite:
		s, err := sqlitestore.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		log.Infow("Using SQLite testimonial store", "path", cfg.SQLitePath)
		return s, func() { _ = s.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

// OpenRedis returns nil when Redis is not configured. A Redis that cannot be
// reached at startup is logged and still returned so rate limiting resumes
// once it comes back; the limiter fails open meanwhile.
func OpenRedis(ctx context.Context, cfg *config.RedisConfig) redis.UniversalClient {
	if !cfg.Enabled() {
		return nil
	}
	client := redis.NewClient(config.ConfigureRedisOptions(cfg))
	if err := config.TestRedisConnection(ctx, client, 3, 2*time.Second); err != nil {
		logger.GetLogger().Warnw("Redis unavailable at startup, rate limiting will fail open", "error", err)
	}
	return client
}
