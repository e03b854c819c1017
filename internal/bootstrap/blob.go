package bootstrap

import (
	"context"
	"fmt"

	"github.com/GoSim-25-26J-441/project-records/config"
	"github.com/GoSim-25-26J-441/project-records/internal/storage/blob"
)

func OpenBlobStore(ctx context.Context, cfg *config.BlobConfig) (blob.Store, error) {
	switch cfg.Backend {
	case "local":
		return blob.NewLocal(cfg.UploadDir)
	case "s3":
		return blob.NewS3(ctx, blob.S3Options{
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
	default:
		return nil, fmt.Errorf("unsupported blob backend %q", cfg.Backend)
	}
}
