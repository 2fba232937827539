package image

import (
	"bytes"
	"fmt"
	stdimage "image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ProtectedFraction is the share of rows, from the top, that the provider must not edit.
const ProtectedFraction = 0.2

// ImageDimensions decodes data, honouring EXIF orientation, and returns its size.
func ImageDimensions(data []byte) (int, int, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return 0, 0, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), nil
}

// BuildMask renders a width x height PNG whose top rows are black (protected)
// and the remainder white (editable).
func BuildMask(width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("mask: invalid size %dx%d", width, height)
	}
	mask := imaging.New(width, height, color.White)
	if protected := ProtectedRows(height); protected > 0 {
		top := imaging.New(width, protected, color.Black)
		mask = imaging.Paste(mask, top, stdimage.Pt(0, 0))
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, mask, imaging.PNG); err != nil {
		return nil, fmt.Errorf("mask: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// ProtectedRows is floor(height * ProtectedFraction).
func ProtectedRows(height int) int {
	return int(float64(height) * ProtectedFraction)
}
