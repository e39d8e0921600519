package store

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/objedit/jsonshape/internal/errors"
	"github.com/objedit/jsonshape/internal/models"
	"github.com/objedit/jsonshape/internal/parser"
)

// FileStore is an ObjectStore backed by a directory tree. Keys map to
// relative file paths under the root; only .json files are listed. ETags
// are content hashes, so an unchanged file keeps its ETag across
// restarts — unlike MemStore, whose ETags are per-put.
type FileStore struct {
	root string
}

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("failed to create bucket root '%s'", dir), err)
	}
	return &FileStore{root: dir}, nil
}

// Root returns the bucket's root directory.
func (f *FileStore) Root() string {
	return f.root
}

// List walks the root and returns every .json object sorted by key (walk
// order is already lexical).
func (f *FileStore) List(ctx context.Context) ([]ObjectInfo, error) {
	var infos []ObjectInfo
	err := filepath.WalkDir(f.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		rel, err := filepath.Rel(f.root, p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		etag, err := contentETag(p)
		if err != nil {
			return err
		}
		infos = append(infos, ObjectInfo{
			Key:          filepath.ToSlash(rel),
			Size:         info.Size(),
			LastModified: info.ModTime().UTC(),
			ETag:         etag,
		})
		return nil
	})
	if err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("failed to list bucket '%s'", f.root), err)
	}
	return infos, nil
}

// Get parses the object behind key and returns its JSON value.
func (f *FileStore) Get(ctx context.Context, key string) (models.JSONValue, error) {
	p, err := f.resolve(key)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(p); os.IsNotExist(err) {
		return nil, errors.NewStorageError(fmt.Sprintf("object '%s' not found", key), ErrNotFound)
	}
	doc, err := parser.ParseFile(p)
	if err != nil {
		return nil, err
	}
	return doc.Root, nil
}

// Put writes value under key as indented JSON, creating parent
// directories as needed.
func (f *FileStore) Put(ctx context.Context, key string, value models.JSONValue) error {
	p, err := f.resolve(key)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to encode object '%s'", key), err)
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to create directories for '%s'", key), err)
	}
	if err := os.WriteFile(p, append(data, '\n'), 0644); err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to write object '%s'", key), err)
	}
	return nil
}

// resolve maps a key to an absolute path, rejecting traversal.
func (f *FileStore) resolve(key string) (string, error) {
	if !ValidKey(key) {
		return "", errors.NewStorageError(fmt.Sprintf("invalid object key '%s'", key), errors.ErrInvalidKey)
	}
	return filepath.Join(f.root, filepath.FromSlash(key)), nil
}

func contentETag(p string) (string, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}
