package vector

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// defaultRasterSize stands in when the markup declares no usable extent.
const defaultRasterSize = 2048

// Rasterize renders SVG markup to pixels on a white backdrop.
//
// Parameters:
//   - markup: Source SVG document.
//   - minWidth, minHeight: Minimum output dimensions. The intrinsic size is
//     scaled up, aspect-preserving, until both are covered; it is never
//     scaled down, so the output is at least the intrinsic size.
//
// This is a one-way conversion: once rasterized, content never returns to
// vector form within a request.
func Rasterize(markup []byte, minWidth, minHeight int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMarkup, err)
	}

	intrW := int(math.Ceil(icon.ViewBox.W))
	intrH := int(math.Ceil(icon.ViewBox.H))
	if intrW <= 0 {
		intrW = defaultRasterSize
	}
	if intrH <= 0 {
		intrH = defaultRasterSize
	}

	scale := 1.0
	if minWidth > 0 {
		if s := float64(minWidth) / float64(intrW); s > scale {
			scale = s
		}
	}
	if minHeight > 0 {
		if s := float64(minHeight) / float64(intrH); s > scale {
			scale = s
		}
	}

	w := int(math.Round(float64(intrW) * scale))
	h := int(math.Round(float64(intrH) * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	icon.SetTarget(0, 0, float64(w), float64(h))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return dst, nil
}
