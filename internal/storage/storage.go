// Package storage contains the media object store and the backends it can sit on:
// a local directory, an S3-compatible bucket (MinIO, AWS S3, etc.) or a WebDAV share.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"signage/internal/config"
)

// TempPrefix marks staged uploads. Objects with this prefix are never listed
// and cannot be addressed by callers.
const TempPrefix = ".signage-tmp-"

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
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is a flat namespace of named objects.
//
// Put must be atomic with respect to List and Open: an object becomes visible
// under its key only once fully written, and replaces any previous object of the
// same key. Open and Delete report model.ErrNotFound for missing keys; I/O
// failures are returned as *model.StorageError.
type Storage interface {
	// List returns every object currently stored, in no particular order.
	List(ctx context.Context) ([]ObjectInfo, error)
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Open retrieves an object's content as a streaming reader alongside its info.
	Open(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
}

// New builds the backend named by cfg.Backend.
func New(cfg config.StorageConfig, mc config.MinIOConfig, wc config.WebDAVConfig) (Storage, error) {
	switch cfg.Backend {
	case "", config.BackendFS:
		return NewLocal(cfg)
	case config.BackendMinIO:
		return NewMinIO(mc)
	case config.BackendWebDAV:
		return NewWebDAV(wc)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
