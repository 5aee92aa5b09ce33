package cacherepositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

type diskImagesStorage struct {
	basePath string
}

var _ CachedImagesStorage = (*diskImagesStorage)(nil)

// NewDiskImagesStorage stores every entry as a single file directly in basePath.
func NewDiskImagesStorage(basePath string) (CachedImagesStorage, error) {
	if basePath == "" {
		return nil, errors.New("cache directory required")
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolve cache directory: %w", err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	return &diskImagesStorage{abs}, nil
}

func (s *diskImagesStorage) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	filePath, err := s.path(key)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	return info.Mode().IsRegular(), nil
}

func (s *diskImagesStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filePath, err := s.path(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, ErrImageNotFound
	}

	return f, nil
}

func (s *diskImagesStorage) Create(ctx context.Context, key string) (EntryWriter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filePath, err := s.path(key)
	if err != nil {
		return nil, err
	}

	tempFile, err := os.CreateTemp(s.basePath, ".cache-*")
	if err != nil {
		return nil, err
	}

	return &diskEntryWriter{
		file:       tempFile,
		targetPath: filePath,
	}, nil
}

func (s *diskImagesStorage) path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid cache key %q", key)
	}

	return filepath.Join(s.basePath, key), nil
}

type diskEntryWriter struct {
	file       *os.File
	targetPath string
	done       bool
}

func (w *diskEntryWriter) Write(p []byte) (int, error) {
	if w.done {
		return 0, ErrWriterClosed
	}

	return w.file.Write(p)
}

func (w *diskEntryWriter) Close() error {
	if w.done {
		return ErrWriterClosed
	}
	w.done = true

	tempName := w.file.Name()
	err := w.file.Sync()
	if closeErr := w.file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempName)
		return err
	}

	if err := os.Rename(tempName, w.targetPath); err != nil {
		os.Remove(tempName)
		return err
	}

	return nil
}

func (w *diskEntryWriter) Abort() error {
	if w.done {
		return nil
	}
	w.done = true

	w.file.Close()
	if err := os.Remove(w.file.Name()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}
