package filefetcher

import (
	"context"
	"io"
)

// Fetcher downloads the resource at url. The body is returned unbuffered and
// the caller has to close it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}
