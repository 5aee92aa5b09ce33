package resolver

import (
	"context"
	"io"
)

// Resolution is an open reader over the cached image for a query.
// The caller owns Reader and has to close it.
type Resolution struct {
	Reader    io.ReadCloser
	FromCache bool
	Message   string
	Width     int
	Height    int
}

type ImageResolver interface {
	Resolve(ctx context.Context, query string) (Resolution, error)
}
