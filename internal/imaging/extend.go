package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ExtendCanvas grows an image to the target dimensions by compositing it,
// centered, onto a larger canvas filled with its sampled edge color.
//
// Parameters:
//   - img: Source image.
//   - targetWidth, targetHeight: Desired output dimensions in pixels.
//
// Returns:
//   - *image.NRGBA: An image of exactly targetWidth x targetHeight.
//   - error: Non-nil only for non-positive target dimensions.
//
// # Algorithm
//
// When the target fits within the original on both axes, extension would
// remove area rather than add it; the call degenerates to CoverCrop.
// Otherwise the canvas is allocated at max(target, original) per axis,
// filled with the edge color, and the original is pasted at floored center
// offsets. If one axis of the original exceeded its target, the oversized
// canvas is then resampled down to the exact target with a cover-style fill.
// The output dimensions always equal the target exactly.
func ExtendCanvas(img image.Image, targetWidth, targetHeight int) (*image.NRGBA, error) {
	if targetWidth <= 0 || targetHeight <= 0 {
		return nil, fmt.Errorf("invalid extend target %dx%d: dimensions must be positive", targetWidth, targetHeight)
	}

	bounds := img.Bounds()
	origW := bounds.Dx()
	origH := bounds.Dy()

	if targetWidth <= origW && targetHeight <= origH {
		return CoverCrop(img, targetWidth, targetHeight)
	}

	canvasW := targetWidth
	if origW > canvasW {
		canvasW = origW
	}
	canvasH := targetHeight
	if origH > canvasH {
		canvasH = origH
	}

	bg := SampleEdgeColor(img)
	canvas := imaging.New(canvasW, canvasH, bg.NRGBA())
	canvas = imaging.Paste(canvas, img, image.Pt((canvasW-origW)/2, (canvasH-origH)/2))

	if canvasW > targetWidth || canvasH > targetHeight {
		canvas = imaging.Fill(canvas, targetWidth, targetHeight, imaging.Center, imaging.Lanczos)
	}

	return canvas, nil
}

// CoverCrop scales an image up just enough to fully cover the target
// rectangle, then center-crops the overflow. The output always equals the
// target dimensions with no background border.
func CoverCrop(img image.Image, targetWidth, targetHeight int) (*image.NRGBA, error) {
	if targetWidth <= 0 || targetHeight <= 0 {
		return nil, fmt.Errorf("invalid cover-crop target %dx%d: dimensions must be positive", targetWidth, targetHeight)
	}
	return imaging.Fill(img, targetWidth, targetHeight, imaging.Center, imaging.Lanczos), nil
}
