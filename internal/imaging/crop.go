package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// CropToAspectRatio extracts the maximal centered region of an image that
// matches the target width:height ratio.
//
// Parameters:
//   - img: Source image.
//   - ratio: Target aspect ratio as width/height (e.g. 16.0/9.0). Must be
//     positive.
//
// Returns a crop whose dimensions satisfy the ratio within integer-pixel
// rounding. When the original is wider than the target ratio, height is the
// limiting dimension and width is trimmed; otherwise width limits and height
// is trimmed. The crop window is centered using floored offsets, so it never
// exceeds the source bounds.
func CropToAspectRatio(img image.Image, ratio float64) (*image.NRGBA, error) {
	if ratio <= 0 || math.IsInf(ratio, 0) || math.IsNaN(ratio) {
		return nil, fmt.Errorf("invalid aspect ratio %v: must be a positive finite number", ratio)
	}

	bounds := img.Bounds()
	origW := bounds.Dx()
	origH := bounds.Dy()
	if origW == 0 || origH == 0 {
		return nil, fmt.Errorf("cannot crop empty image")
	}

	origRatio := float64(origW) / float64(origH)

	cropW, cropH := origW, origH
	if origRatio > ratio {
		// Wider than target: keep full height, trim width.
		cropW = int(math.Round(float64(origH) * ratio))
	} else {
		cropH = int(math.Round(float64(origW) / ratio))
	}
	if cropW < 1 {
		cropW = 1
	}
	if cropH < 1 {
		cropH = 1
	}
	if cropW > origW {
		cropW = origW
	}
	if cropH > origH {
		cropH = origH
	}

	offsetX := (origW - cropW) / 2
	offsetY := (origH - cropH) / 2

	rect := image.Rect(
		bounds.Min.X+offsetX,
		bounds.Min.Y+offsetY,
		bounds.Min.X+offsetX+cropW,
		bounds.Min.Y+offsetY+cropH,
	)
	return imaging.Crop(img, rect), nil
}
