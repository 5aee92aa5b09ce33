package imagingprocessor

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"

	"github.com/thebartekbanach/imgsearch/pkg/processor"
)

type Config struct {
	Background color.Color
	Filter     imaging.ResampleFilter
}

func DefaultConfig() Config {
	return Config{
		Background: color.White,
		Filter:     imaging.Lanczos,
	}
}

type Processor struct {
	config Config
}

var _ processor.ProcessingService = (*Processor)(nil)

func NewProcessor(config Config) processor.ProcessingService {
	return &Processor{config}
}

func (proc *Processor) ContentType() string {
	return "image/png"
}

// Process scales src to cover width x height, crops the overflow around the
// centre and flattens the result onto the background colour.
func (proc *Processor) Process(ctx context.Context, src io.Reader, width, height int) (io.ReadCloser, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %w (%dx%d)", processor.ErrTransformFailed, processor.ErrInvalidDimensions, width, height)
	}

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", processor.ErrTransformFailed, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resized := imaging.Fill(img, width, height, imaging.Center, proc.config.Filter)
	canvas := imaging.New(width, height, proc.config.Background)
	flattened := imaging.Overlay(canvas, resized, image.Pt(0, 0), 1.0)

	pr, pw := io.Pipe()
	go func() {
		// Closing pr makes the next write fail, which stops the encoder.
		pw.CloseWithError(imaging.Encode(pw, flattened, imaging.PNG))
	}()

	return pr, nil
}
