package testutils

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

// GenerateImage returns an encoded width x height image with a gradient, so
// resized output is not a single flat colour.
func GenerateImage(t *testing.T, width, height int, format imaging.Format) []byte {
	t.Helper()

	img := imaging.New(width, height, color.NRGBA{0, 0, 0, 255})
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x % 256), uint8(y % 256), 128, 255})
		}
	}

	buf := &bytes.Buffer{}
	if err := imaging.Encode(buf, img, format); err != nil {
		t.Fatalf("cannot encode test image: %v", err)
	}

	return buf.Bytes()
}

func GenerateJPEG(t *testing.T, width, height int) []byte {
	return GenerateImage(t, width, height, imaging.JPEG)
}

// GenerateTransparentPNG returns a fully transparent width x height PNG.
func GenerateTransparentPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := imaging.New(width, height, color.NRGBA{0, 0, 0, 0})
	buf := &bytes.Buffer{}
	if err := imaging.Encode(buf, img, imaging.PNG); err != nil {
		t.Fatalf("cannot encode test image: %v", err)
	}

	return buf.Bytes()
}
