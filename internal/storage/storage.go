package storage

import (
	"context"
	"time"
)

// DefaultPresignedURLExpiry is used when no expiry is configured.
const DefaultPresignedURLExpiry = 15 * time.Minute

// MediaStorage holds exercise media and body-part covers. Objects are only
// reached through short-lived presigned URLs.
type MediaStorage interface {
	// PresignUpload returns a URL accepting a single PUT of contentType to objectKey.
	PresignUpload(ctx context.Context, objectKey, contentType string) (string, error)
	// PresignDownload returns a URL serving objectKey with GET.
	PresignDownload(ctx context.Context, objectKey string) (string, error)
	DeleteObject(ctx context.Context, objectKey string) error
}
