// Package store defines the object-storage boundary the editor works
// against: list objects, fetch an object body as parsed JSON, put a JSON
// body back. Transport errors pass through uninterpreted; the core never
// looks inside them. An S3 client would implement ObjectStore — the
// implementations here cover tests and local buckets.
package store

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/objedit/jsonshape/internal/models"
)

//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks

// ErrNotFound is returned by Get for a key with no object behind it.
var ErrNotFound = errors.New("object not found")

// ObjectInfo describes one stored object as reported by List.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
	ETag         string    `json:"etag"`
}

// ObjectStore is the storage seam. Implementations must treat keys as
// opaque relative paths validated by ValidKey.
type ObjectStore interface {
	List(ctx context.Context) ([]ObjectInfo, error)
	Get(ctx context.Context, key string) (models.JSONValue, error)
	Put(ctx context.Context, key string, value models.JSONValue) error
}

// ValidKey reports whether key is acceptable: non-empty, relative, no
// traversal outside the bucket root and no backslashes.
func ValidKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return false
	}
	clean := path.Clean(key)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return false
	}
	return true
}
