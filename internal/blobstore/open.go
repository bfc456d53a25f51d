package blobstore

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/vitrine/internal/config"
)

// Open creates the store selected by the configuration.
// dirs are created up front for the local driver.
func Open(ctx context.Context, cfg *config.UploadStorageConfig, dirs ...string) (Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("upload storage config is required")
	}

	switch cfg.Driver {
	case config.UploadDriverLocal:
		log.Info("using local upload store", "dir", cfg.UploadsDir)
		return NewLocalStore(cfg.UploadsDir, dirs...)
	case config.UploadDriverS3:
		if cfg.S3 == nil {
			return nil, fmt.Errorf("missing s3 config")
		}
		log.Info("using s3 upload store", "endpoint", cfg.S3.Endpoint, "bucket", cfg.S3.Bucket)
		return NewS3Store(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown upload driver %q", cfg.Driver)
	}
}
