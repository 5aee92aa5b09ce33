package processor

import (
	"context"
	"errors"
	"io"
)

// ProcessingService turns a source image into a width x height image.
// Decoding happens before Process returns, the encoded output is produced
// while the returned reader is consumed.
type ProcessingService interface {
	Process(ctx context.Context, src io.Reader, width, height int) (io.ReadCloser, error)
	ContentType() string
}

var (
	ErrTransformFailed   = errors.New("image transform failed")
	ErrInvalidDimensions = errors.New("image dimensions must be positive")
)
