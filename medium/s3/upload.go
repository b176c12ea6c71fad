package s3

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
)

// UploadConfig configures the S3 uploader.
type UploadConfig struct {
	// PartSize is the minimum part size for multipart uploads.
	// Default: 8MB (larger than SDK default of 5MB for better throughput)
	PartSize int64

	// Concurrency is the number of concurrent part uploads.
	// Default: 5 (matches SDK default)
	Concurrency int

	// LeavePartsOnError controls whether failed multipart uploads
	// are automatically aborted.
	// Default: false (abort on error)
	LeavePartsOnError bool
}

// DefaultUploadConfig returns production-optimized upload settings.
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{
		PartSize:          8 * 1024 * 1024, // 8MB
		Concurrency:       5,
		LeavePartsOnError: false,
	}
}

func (c UploadConfig) validate() error {
	if c.PartSize < manager.MinUploadPartSize {
		return fmt.Errorf("s3: upload part size %d below minimum %d", c.PartSize, manager.MinUploadPartSize)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("s3: upload concurrency must be positive, got %d", c.Concurrency)
	}
	return nil
}

// newUploader creates a configured S3 uploader.
func newUploader(client Client, cfg UploadConfig) *manager.Uploader {
	return manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = cfg.PartSize
		u.Concurrency = cfg.Concurrency
		u.LeavePartsOnError = cfg.LeavePartsOnError
	})
}
