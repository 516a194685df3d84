package ports

import "context"

// FileStore is the blob store accepting attachment uploads. Upload returns
// a durable view URL for the stored object.
type FileStore interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (string, error)
}
