package policies

import (
	"context"
	"io"
)

// PhotoUploader stores an image and returns the URL clients load it from.
type PhotoUploader interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (publicURL string, err error)
}
