package resolver

import (
	"bytes"
	"image"
	"io"

	// decoders for the header probe
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

type probedReader struct {
	io.Reader
	io.Closer
}

// probeDimensions reads the image header of reader and returns a reader that
// still yields the complete image.
func probeDimensions(reader io.ReadCloser) (io.ReadCloser, int, int, error) {
	header := &bytes.Buffer{}
	config, _, err := image.DecodeConfig(io.TeeReader(reader, header))

	return &probedReader{io.MultiReader(header, reader), reader}, config.Width, config.Height, err
}
