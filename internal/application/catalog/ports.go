package catalog

import (
	"context"
	"io"
)

// ImageStorage stores uploaded product images and returns their public URL
type ImageStorage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}

// ActivityTracker receives storefront browsing activity. Implementations
// must not fail the caller.
type ActivityTracker interface {
	RecordView(ctx context.Context, sessionID string, productID int64, productName string)
	RecordSearch(ctx context.Context, sessionID, query string, results int)
}
