package scan

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// Synthesize builds an RGB raster from depth-ascending sample rows: the rows
// are normalized to 0–255 as one population, each intensity is passed through
// the transform, and raster row i holds rows[i] with column j at sample j.
// Width is FrameWidth, height is len(rows).
//
// An empty row set fails with ErrNoData rather than producing a zero-height
// image; a row of the wrong width fails with ErrInvalidInputShape.
func Synthesize(rows [][]float64, transform Transform) (*image.RGBA, error) {
	for i, row := range rows {
		if len(row) != FrameWidth {
			return nil, fmt.Errorf("%w: row %d has %d samples, want %d", ErrInvalidInputShape, i, len(row), FrameWidth)
		}
	}

	norm, err := Normalize(rows)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, FrameWidth, len(norm)))
	for y, row := range norm {
		for x, n := range row {
			img.SetRGBA(x, y, transform(float64(n)/255))
		}
	}
	return img, nil
}

// EncodePNG serializes a raster to PNG bytes. The encoder settings are fixed,
// so the same raster always encodes to the same bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// SynthesizeFrame is the full read-path pipeline below the store: rows in,
// encoded PNG bytes out.
func SynthesizeFrame(rows [][]float64, transform Transform) ([]byte, error) {
	img, err := Synthesize(rows, transform)
	if err != nil {
		return nil, err
	}
	return EncodePNG(img)
}
