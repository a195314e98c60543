package media

import (
	"context"
	"errors"
	"time"
)

var ErrObjectNotFound = errors.New("object not found")

type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
}

// Storage is the blob store attachments live in. Uploads and downloads go
// straight between the client and the store through presigned URLs.
type Storage interface {
	PresignUpload(ctx context.Context, key string, expiry time.Duration) (string, error)
	PresignDownload(ctx context.Context, key, filename string, expiry time.Duration) (string, error)
	Stat(ctx context.Context, key string) (ObjectInfo, error)
}
