package cacherepositories

import (
	"context"
	"errors"
	"io"
)

// EntryWriter receives the bytes of a single cache entry. The entry becomes
// visible only after Close returns nil. Abort discards everything written so
// far and is a no-op after a successful Close.
type EntryWriter interface {
	io.Writer
	Close() error
	Abort() error
}

type CachedImagesStorage interface {
	Exists(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Create(ctx context.Context, key string) (EntryWriter, error)
}

var (
	ErrImageNotFound = errors.New("image not found")
	ErrWriterClosed  = errors.New("entry writer already closed")
)
