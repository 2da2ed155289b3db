package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutorhub/tutorhub-backend/config"
	"github.com/tutorhub/tutorhub-backend/internal/store/sqlitestore"
	"github.com/tutorhub/tutorhub-backend/logger"
)

func init() {
	logger.IsTest = true
}

func TestOpenStore_SQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "tutorhub.db")}

	s, closeFn, err := OpenStore(context.Background(), cfg)
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &sqlitestore.TestimonialStore{}, s)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, _, err := OpenStore(context.Background(), &config.DatabaseConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestOpenRedis(t *testing.T) {
	assert.Nil(t, OpenRedis(context.Background(), &config.RedisConfig{}))

	mr := miniredis.RunT(t)
	client := OpenRedis(context.Background(), &config.RedisConfig{Address: mr.Addr()})
	require.NotNil(t, client)
	defer client.Close()
	assert.NoError(t, client.Ping(context.Background()).Err())
}
