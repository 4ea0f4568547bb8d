package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// Sharpen applies an unsharp mask to an image.
//
// Parameters:
//   - img: Source image.
//   - amount: Sharpening strength 0-10. Values outside the range are
//     clamped; 0 returns the source unchanged.
func Sharpen(img image.Image, amount float64) image.Image {
	if amount <= 0 {
		return img
	}
	if amount > 10 {
		amount = 10
	}
	return effect.UnsharpMask(img, 1.0, amount)
}

// ApplyFilter applies a named visual filter to an image.
//
// Parameters:
//   - img: Source image.
//   - name: One of "grayscale", "sepia", "invert", "blur", "edge-detect",
//     "brightness", "contrast", "saturation".
//   - amount: Filter strength. For blur it is the radius in pixels (default
//     3 when zero); for brightness/contrast/saturation it is the adjustment
//     in [-1, 1]; the remaining filters ignore it.
//
// Returns the filtered image, or an error for an unknown filter name.
func ApplyFilter(img image.Image, name string, amount float64) (image.Image, error) {
	switch name {
	case "grayscale":
		return effect.Grayscale(img), nil
	case "sepia":
		return effect.Sepia(img), nil
	case "invert":
		return effect.Invert(img), nil
	case "blur":
		if amount <= 0 {
			amount = 3.0
		}
		return blur.Gaussian(img, amount), nil
	case "edge-detect":
		if amount <= 0 {
			amount = 1.0
		}
		return effect.EdgeDetection(img, amount), nil
	case "brightness":
		return adjust.Brightness(img, clampAdjust(amount)), nil
	case "contrast":
		return adjust.Contrast(img, clampAdjust(amount)), nil
	case "saturation":
		return adjust.Saturation(img, clampAdjust(amount)), nil
	default:
		return nil, fmt.Errorf("unknown filter: %s", name)
	}
}

func clampAdjust(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// RotateFlip rotates an image by a multiple of 90 degrees clockwise and
// optionally mirrors it.
//
// Parameters:
//   - img: Source image.
//   - rotate: Clockwise rotation in degrees. One of 0, 90, 180, 270.
//   - flipH: Mirror horizontally (around the vertical axis) after rotation.
//   - flipV: Mirror vertically after rotation.
//
// Returns an error for rotation angles outside the supported set.
func RotateFlip(img image.Image, rotate int, flipH, flipV bool) (image.Image, error) {
	var out image.Image
	switch rotate {
	case 0:
		out = img
	case 90:
		// imaging rotates counter-clockwise; 270 CCW == 90 CW.
		out = imaging.Rotate270(img)
	case 180:
		out = imaging.Rotate180(img)
	case 270:
		out = imaging.Rotate90(img)
	default:
		return nil, fmt.Errorf("unsupported rotation %d: must be 0, 90, 180 or 270", rotate)
	}
	if flipH {
		out = imaging.FlipH(out)
	}
	if flipV {
		out = imaging.FlipV(out)
	}
	return out, nil
}
