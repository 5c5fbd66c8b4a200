package assets

import (
	"context"
	"io"
)

// BlobStore is the binary storage the registries put asset payloads into.
// The production implementation sits on MinIO; tests use an in-memory map.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error
}
