package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	pkgerrors "github.com/aurumjoyeria/aurum-backend/pkg/errors"
)

// ContentTypeJPEG is the content type of every optimized output.
const ContentTypeJPEG = "image/jpeg"

// Options bounds the optimization pass.
type Options struct {
	MaxDimensionPx int
	JPEGQuality    int
}

func (o Options) normalized() Options {
	if o.MaxDimensionPx <= 0 {
		o.MaxDimensionPx = 1600
	}
	if o.JPEGQuality <= 0 || o.JPEGQuality > 100 {
		o.JPEGQuality = 85
	}
	return o
}

// Optimize decodes an uploaded image (JPEG, PNG, or WebP), downscales it so
// neither side exceeds MaxDimensionPx, and re-encodes it as JPEG. Images
// already within bounds are still re-encoded so stored bytes are uniform.
func Optimize(data []byte, opts Options) ([]byte, error) {
	opts = opts.normalized()

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported or corrupt image")
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image has no pixels")
	}

	targetW, targetH := fitWithin(width, height, opts.MaxDimensionPx)
	var out image.Image = src
	if targetW != width || targetH != height {
		scaled := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, bounds, draw.Over, nil)
		out = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: opts.JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// fitWithin scales (w, h) down proportionally so both fit inside maxDim.
// Dimensions already within bounds are returned unchanged.
func fitWithin(w, h, maxDim int) (int, int) {
	if w <= maxDim && h <= maxDim {
		return w, h
	}
	if w >= h {
		scaled := h * maxDim / w
		if scaled < 1 {
			scaled = 1
		}
		return maxDim, scaled
	}
	scaled := w * maxDim / h
	if scaled < 1 {
		scaled = 1
	}
	return scaled, maxDim
}
