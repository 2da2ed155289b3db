package blob

import (
	"context"
	"fmt"

	"github.com/tutorhub/tutorhub-backend/config"
)

// NewGatewayFromConfig builds the storage backend selected by cfg.Provider and
// wraps it in a Gateway.
func NewGatewayFromConfig(ctx context.Context, cfg config.StorageConfig) (*Gateway, Storage, error) {
	var (
		storage Storage
		err     error
	)
	switch cfg.Provider {
	case config.ProviderR2:
		storage = NewR2Storage(cfg.R2AccountID, cfg.Bucket, cfg.AccessKeyID, cfg.SecretAccessKey)
	case config.ProviderS3:
		storage, err = NewS3Storage(ctx, cfg.S3Region, cfg.Bucket, cfg.AccessKeyID, cfg.SecretAccessKey)
	case config.ProviderSupabase:
		storage, err = NewSupabaseStorage(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.Bucket)
	case config.ProviderLocal:
		storage, err = NewLocalStorage(cfg.LocalBasePath)
	default:
		return nil, nil, fmt.Errorf("unsupported storage provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, nil, err
	}

	gw, err := NewGateway(cfg.Provider, storage, cfg.PublicBaseURL, config.PlaceholderImagePath)
	if err != nil {
		return nil, nil, err
	}
	return gw, storage, nil
}
