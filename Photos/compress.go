package Photos

import (
	"bytes"
	"errors"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

var errNoPhoto = errors.New("no photo supplied")

// decode reads a camera image and applies its EXIF orientation.
func decode(r io.Reader) (image.Image, error) {
	if r == nil {
		return nil, errNoPhoto
	}
	return imaging.Decode(r, imaging.AutoOrientation(true))
}

// compress bounds the longest edge by maxDim and re-encodes as JPEG.
func compress(img image.Image, maxDim, quality int) ([]byte, int, int, error) {
	b := img.Bounds()
	if maxDim > 0 && (b.Dx() > maxDim || b.Dy() > maxDim) {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, 0, 0, err
	}
	b = img.Bounds()
	return buf.Bytes(), b.Dx(), b.Dy(), nil
}
