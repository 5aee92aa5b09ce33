package cache

import (
	"context"
	"io"

	cacherepositories "github.com/thebartekbanach/imgsearch/pkg/cache/repositories"
)

type EntryWriter = cacherepositories.EntryWriter

// CacheService stores one image per query. Entries are written once, read
// many times and never removed.
type CacheService interface {
	Exists(ctx context.Context, query string) (bool, error)
	OpenRead(ctx context.Context, query string) (io.ReadCloser, error)
	OpenWrite(ctx context.Context, query string) (EntryWriter, error)
}
