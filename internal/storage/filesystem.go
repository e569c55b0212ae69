package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// filesystemStorage stores document bytes on the local filesystem under a base
// directory. Storage keys may contain slashes; they are resolved relative to
// the base directory.
type filesystemStorage struct {
	baseDir string
}

// NewFilesystem creates a filesystem-backed Storage rooted at baseDir,
// creating the directory if it does not exist.
func NewFilesystem(baseDir string) (Storage, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("documents directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create documents directory %s: %w", baseDir, err)
	}
	return &filesystemStorage{baseDir: baseDir}, nil
}

func (f *filesystemStorage) path(key string) string {
	return filepath.Join(f.baseDir, filepath.FromSlash(key))
}

// Put writes the object to disk, creating parent directories as needed.
// A partial file is removed if the copy fails.
func (f *filesystemStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	p := f.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return ObjectInfo{}, fmt.Errorf("create object directory: %w", err)
	}

	file, err := os.Create(p)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("create object file: %w", err)
	}
	defer file.Close()

	n, err := io.Copy(file, r)
	if err != nil {
		os.Remove(p)
		return ObjectInfo{}, fmt.Errorf("write object file: %w", err)
	}

	return ObjectInfo{
		Key:          key,
		Size:         n,
		ContentType:  opt.ContentType,
		LastModified: time.Now(),
		Metadata:     opt.Metadata,
	}, nil
}

// Get opens the object file for streaming. Missing files map to ErrNotFound.
func (f *filesystemStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	p := f.path(key)

	st, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ObjectInfo{}, ErrNotFound
		}
		return nil, ObjectInfo{}, fmt.Errorf("stat object file: %w", err)
	}

	file, err := os.Open(p)
	if err != nil {
		return nil, ObjectInfo{}, fmt.Errorf("open object file: %w", err)
	}

	return file, ObjectInfo{
		Key:          key,
		Size:         st.Size(),
		LastModified: st.ModTime(),
	}, nil
}

// Delete removes the object file. An absent file is not an error.
func (f *filesystemStorage) Delete(ctx context.Context, key string) error {
	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete object file: %w", err)
	}
	return nil
}

// PresignGet is not available for local files.
func (f *filesystemStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "", ErrPresignNotSupported
}
