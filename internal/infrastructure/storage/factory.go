package storage

import (
	"context"
	"fmt"

	catalogapp "github.com/vetcollars/storefront/internal/application/catalog"
	infraconfig "github.com/vetcollars/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
)

// New creates the image storage selected by cfg.Driver
func New(ctx context.Context, cfg *infraconfig.StorageConfig, logger *zap.Logger) (catalogapp.ImageStorage, error) {
	switch cfg.Driver {
	case "s3":
		s, err := NewS3ObjectStorage(cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			logger.Warn("Could not verify storage bucket", zap.String("bucket", cfg.Bucket), zap.Error(err))
		}
		return s, nil
	case "local", "":
		return NewLocalStorage(cfg.LocalDir, cfg.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
