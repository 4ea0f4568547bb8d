package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// EdgeColor is an 8-bit RGB color sampled from an image's border regions.
// It is the background color used to fill extended canvas area.
type EdgeColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// NRGBA returns the color as a fully opaque color.NRGBA.
func (c EdgeColor) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Hex returns the color as a lowercase "#rrggbb" string.
func (c EdgeColor) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hex()
}

// edgeBandThickness returns the sampling band thickness for an image:
// 3% of the shorter side, clamped to [3, 15] pixels.
func edgeBandThickness(width, height int) int {
	min := width
	if height < min {
		min = height
	}
	t := int(math.Round(0.03 * float64(min)))
	if t < 3 {
		t = 3
	}
	if t > 15 {
		t = 15
	}
	return t
}

// SampleEdgeColor computes a representative background color from an image's
// border regions.
//
// Parameters:
//   - img: Source image. Any color model.
//
// Returns the weighted mean color of four edge bands. The band thickness is
// 3% of the shorter side, clamped to [3, 15] pixels. Top and bottom bands
// span the full width and carry weight 1.5; left and right bands exclude the
// corner overlap and carry weight 1.0. Horizontal edges are weighted higher
// because letterboxed content, the dominant case for canvas extension, puts
// its background above and below the subject.
//
// Degenerate images fall back to the whole-image mean, then to white.
func SampleEdgeColor(img image.Image) EdgeColor {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w == 0 || h == 0 {
		return EdgeColor{R: 255, G: 255, B: 255}
	}

	t := edgeBandThickness(w, h)
	if w < 2*t || h < 2*t {
		// Bands would overlap themselves; sample everything instead.
		return meanColor(img, bounds)
	}

	var sumR, sumG, sumB, weight float64

	accumulate := func(rect image.Rectangle, bandWeight float64) {
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			for x := rect.Min.X; x < rect.Max.X; x++ {
				r, g, b, _ := img.At(x, y).RGBA()
				sumR += bandWeight * float64(r>>8)
				sumG += bandWeight * float64(g>>8)
				sumB += bandWeight * float64(b>>8)
				weight += bandWeight
			}
		}
	}

	minX, minY := bounds.Min.X, bounds.Min.Y
	accumulate(image.Rect(minX, minY, minX+w, minY+t), 1.5)     // top
	accumulate(image.Rect(minX, minY+h-t, minX+w, minY+h), 1.5) // bottom
	accumulate(image.Rect(minX, minY+t, minX+t, minY+h-t), 1.0) // left
	accumulate(image.Rect(minX+w-t, minY+t, minX+w, minY+h-t), 1.0)

	if weight == 0 {
		return meanColor(img, bounds)
	}

	return EdgeColor{
		R: uint8(math.Round(sumR / weight)),
		G: uint8(math.Round(sumG / weight)),
		B: uint8(math.Round(sumB / weight)),
	}
}

// meanColor computes the unweighted mean color over a region,
// falling back to white for empty regions.
func meanColor(img image.Image, rect image.Rectangle) EdgeColor {
	var sumR, sumG, sumB float64
	count := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			sumR += float64(r >> 8)
			sumG += float64(g >> 8)
			sumB += float64(b >> 8)
			count++
		}
	}
	if count == 0 {
		return EdgeColor{R: 255, G: 255, B: 255}
	}
	n := float64(count)
	return EdgeColor{
		R: uint8(math.Round(sumR / n)),
		G: uint8(math.Round(sumG / n)),
		B: uint8(math.Round(sumB / n)),
	}
}
