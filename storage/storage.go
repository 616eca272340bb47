package storage

import (
	"context"
	"fmt"

	"pension-backend/config"
)

// ObjectStore holds uploaded payment screenshots.
type ObjectStore interface {
	Upload(ctx context.Context, name, contentType string, data []byte) error
	Delete(ctx context.Context, name string) error
	PublicURL(name string) string
}

// New picks the driver named by STORAGE_DRIVER.
func New(ctx context.Context, s *config.Settings) (ObjectStore, error) {
	switch s.StorageDriver {
	case "s3":
		return NewS3Store(ctx, s)
	case "disk", "":
		return NewDiskStore(s.UploadDir, s.PublicBaseURL+"/uploads"), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", s.StorageDriver)
	}
}
