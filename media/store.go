package media

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a storage key does not resolve to a stored
// object, including when every path candidate has been exhausted.
var ErrNotFound = errors.New("media: object not found")

// Store defines the interface for the object store holding original media
// assets. Keys are opaque slash-separated strings; historical keys may
// contain literal spaces, percent-escapes, or both, which is why lookups
// go through the path candidates in resolver.go.
type Store interface {
	// Get retrieves a reader for the object at key, with its file info.
	// Returns ErrNotFound when no object exists at key.
	Get(key string) (io.ReadCloser, os.FileInfo, error)
	// Exists reports whether an object exists at key.
	Exists(key string) (bool, error)
	// Put stores data at key, creating parent directories as needed.
	Put(key string, data io.Reader, contentType string) error
	// Delete removes the object at key. Deleting a missing key is not an
	// error.
	Delete(key string) error
	// List returns all keys under the given prefix.
	List(prefix string) ([]string, error)
}

// LocalStorage implements the Store interface using the local filesystem
type LocalStorage struct {
	basePath string // absolute path to the MEDIA_STORAGE_PATH
}

// NewLocalStorage creates a new local filesystem store
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	absBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid base storage path '%s': %w", basePath, err)
	}

	if err := os.MkdirAll(absBasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory '%s': %w", absBasePath, err)
	}

	log.Printf("media.store: Initialized LocalStorage at %s", absBasePath)
	return &LocalStorage{basePath: absBasePath}, nil
}

// fullPath calculates the absolute path for a key and performs the
// traversal security check. Keys are treated literally: a key containing
// "%20" names a file with "%20" in its name on disk.
func (ls *LocalStorage) fullPath(key string) (string, error) {
	cleanKey := filepath.Clean(filepath.FromSlash(key))

	fullPath := filepath.Join(ls.basePath, cleanKey)
	absFullPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for '%s': %w", key, err)
	}

	if !strings.HasPrefix(absFullPath, ls.basePath) {
		return "", fmt.Errorf("invalid key: access denied for '%s'", key)
	}

	return absFullPath, nil
}

func (ls *LocalStorage) Get(key string) (io.ReadCloser, os.FileInfo, error) {
	fullPath, err := ls.fullPath(key)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to open object '%s': %w", key, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed to stat object '%s': %w", key, err)
	}
	if info.IsDir() {
		file.Close()
		return nil, nil, ErrNotFound
	}

	return file, info, nil
}

func (ls *LocalStorage) Exists(key string) (bool, error) {
	fullPath, err := ls.fullPath(key)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object '%s': %w", key, err)
	}
	return !info.IsDir(), nil
}

func (ls *LocalStorage) Put(key string, data io.Reader, contentType string) error {
	fullPath, err := ls.fullPath(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory for '%s': %w", key, err)
	}

	outFile, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file '%s': %w", key, err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, data); err != nil {
		outFile.Close()
		os.Remove(fullPath)
		return fmt.Errorf("failed to write data to '%s': %w", key, err)
	}

	log.Printf("media.store: Saved object %s (%s)", key, contentType)
	return nil
}

// Delete removes an object; missing keys are treated as success
func (ls *LocalStorage) Delete(key string) error {
	fullPath, err := ls.fullPath(key)
	if err != nil {
		return err
	}

	err = os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete object '%s': %w", key, err)
	}
	if err == nil {
		log.Printf("media.store: Deleted object %s", key)
	}
	return nil
}

func (ls *LocalStorage) List(prefix string) ([]string, error) {
	keys := []string{}
	err := filepath.WalkDir(ls.basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(ls.basePath, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list objects under '%s': %w", prefix, err)
	}
	return keys, nil
}
