package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/objedit/jsonshape/internal/errors"
	"github.com/objedit/jsonshape/internal/models"
)

type memObject struct {
	value        models.JSONValue
	size         int64
	lastModified time.Time
	etag         string
}

// MemStore is an in-memory ObjectStore for tests and scratch buckets.
// Like the rest of the core it is not safe for concurrent use.
type MemStore struct {
	objects map[string]memObject
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{objects: make(map[string]memObject)}
}

// List returns the stored objects sorted by key.
func (m *MemStore) List(ctx context.Context) ([]ObjectInfo, error) {
	keys := make([]string, 0, len(m.objects))
	for key := range m.objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	infos := make([]ObjectInfo, 0, len(keys))
	for _, key := range keys {
		obj := m.objects[key]
		infos = append(infos, ObjectInfo{
			Key:          key,
			Size:         obj.size,
			LastModified: obj.lastModified,
			ETag:         obj.etag,
		})
	}
	return infos, nil
}

// Get returns the stored value for key, or ErrNotFound.
func (m *MemStore) Get(ctx context.Context, key string) (models.JSONValue, error) {
	obj, ok := m.objects[key]
	if !ok {
		return nil, errors.NewStorageError(fmt.Sprintf("object '%s' not found", key), ErrNotFound)
	}
	return obj.value, nil
}

// Put stores value under key. Each put gets a fresh ETag and timestamp.
func (m *MemStore) Put(ctx context.Context, key string, value models.JSONValue) error {
	if !ValidKey(key) {
		return errors.NewStorageError(fmt.Sprintf("invalid object key '%s'", key), errors.ErrInvalidKey)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to encode object '%s'", key), err)
	}
	m.objects[key] = memObject{
		value:        value,
		size:         int64(len(data)),
		lastModified: time.Now().UTC(),
		etag:         uuid.NewString(),
	}
	return nil
}
