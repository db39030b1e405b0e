// Package storage holds document payload bytes. Metadata and the scope index
// live in the repository; objects here are addressed only by key.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"scopedocs/internal/config"
)

// ErrObjectNotFound is returned by Get when no object exists under the key.
var ErrObjectNotFound = errors.New("object not found")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and the implementation
// will buffer/chunk as supported by the backend.
// ContentType and Metadata are optional.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is a payload store keyed by object key.
type Storage interface {
	// Put uploads an object under the given key, replacing any existing object.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	// It returns ErrObjectNotFound when the key is absent.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Stat reports an object's info without reading it.
	// It returns ErrObjectNotFound when the key is absent.
	Stat(ctx context.Context, key string) (ObjectInfo, error)
	// Delete removes an object by key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// New builds the payload backend selected by cfg.BlobBackend.
func New(cfg config.StoreConfig) (Storage, error) {
	switch cfg.BlobBackend {
	case config.BlobBackendLocal, "":
		return NewLocal(cfg.BlobDir)
	case config.BlobBackendMinIO:
		return NewMinIO(cfg.MinIO)
	default:
		return nil, fmt.Errorf("unsupported blob backend %q", cfg.BlobBackend)
	}
}
