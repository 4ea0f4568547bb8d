package imaging

import (
	"fmt"
	"image"
)

// meanTolerance is the per-channel mean-intensity divergence (out of 255)
// above which two images are considered different. Kept small on purpose: a
// false "different" costs nothing downstream, while a false "same" would
// wrongly discard real generated output.
const meanTolerance = 5.0

// ChannelMeans computes the per-channel mean intensity of an image,
// each in the range 0-255.
func ChannelMeans(img image.Image) (r, g, b float64) {
	bounds := img.Bounds()
	var sumR, sumG, sumB float64
	count := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			pr, pg, pb, _ := img.At(x, y).RGBA()
			sumR += float64(pr >> 8)
			sumG += float64(pg >> 8)
			sumB += float64(pb >> 8)
			count++
		}
	}
	if count == 0 {
		return 0, 0, 0
	}
	n := float64(count)
	return sumR / n, sumG / n, sumB / n
}

// Differ reports whether two encoded images differ meaningfully.
//
// This is the sanity check applied to generative-fill output: a service can
// report success yet hand back the unmodified input, and such a response must
// be treated as a failure, not a result.
//
// The comparison is deliberately cheap. Byte lengths are compared first, then
// decoded dimensions, then per-channel mean intensity with a small tolerance.
// It only needs to catch "literally unchanged" - it does not measure
// perceptual similarity, and a response that alters composition while
// preserving average brightness can slip past it.
func Differ(a, b []byte) (bool, error) {
	if len(a) != len(b) {
		return true, nil
	}

	imgA, _, err := Decode(a)
	if err != nil {
		return false, fmt.Errorf("failed to decode first image for comparison: %w", err)
	}
	imgB, _, err := Decode(b)
	if err != nil {
		return false, fmt.Errorf("failed to decode second image for comparison: %w", err)
	}

	if !imgA.Bounds().Size().Eq(imgB.Bounds().Size()) {
		return true, nil
	}

	ra, ga, ba := ChannelMeans(imgA)
	rb, gb, bb := ChannelMeans(imgB)

	return diverges(ra, rb) || diverges(ga, gb) || diverges(ba, bb), nil
}

func diverges(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d > meanTolerance
}
