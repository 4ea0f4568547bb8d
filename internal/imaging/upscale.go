package imaging

import (
	"fmt"
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Default auto-upscale tuning. Outputs below the floor are resampled upward
// toward the target byte size; the scale factor never exceeds the cap.
const (
	DefaultUpscaleFloorBytes  = 100 << 10
	DefaultUpscaleTargetBytes = 250 << 10
	DefaultUpscaleMaxScale    = 4.0
)

// UpscaleOptions tunes the auto-upscale heuristic. Zero values select the
// package defaults.
type UpscaleOptions struct {
	// FloorBytes is the encoded size below which upscaling triggers.
	FloorBytes int

	// TargetBytes is the encoded size the scale factor aims for
	// (the midpoint of the acceptable output band).
	TargetBytes int

	// MaxScale caps the linear scale factor.
	MaxScale float64
}

func (o UpscaleOptions) withDefaults() UpscaleOptions {
	if o.FloorBytes <= 0 {
		o.FloorBytes = DefaultUpscaleFloorBytes
	}
	if o.TargetBytes <= 0 {
		o.TargetBytes = DefaultUpscaleTargetBytes
	}
	if o.MaxScale <= 0 {
		o.MaxScale = DefaultUpscaleMaxScale
	}
	return o
}

// UpscaleFactor computes the linear scale factor that grows an encoded
// output of sizeBytes toward targetBytes, capped at maxScale. Encoded size
// grows roughly with pixel count, so the linear factor is the square root of
// the byte ratio.
func UpscaleFactor(sizeBytes, targetBytes int, maxScale float64) float64 {
	if sizeBytes <= 0 {
		return maxScale
	}
	f := math.Sqrt(float64(targetBytes) / float64(sizeBytes))
	if f > maxScale {
		return maxScale
	}
	if f < 1 {
		return 1
	}
	return f
}

// AutoUpscale resamples an encoded image upward when its byte size falls
// below the configured floor.
//
// Parameters:
//   - data: Encoded image bytes.
//   - format: Encoding to use for the upscaled output.
//   - quality: Lossy quality 1-100 for the re-encode.
//   - opts: Heuristic tuning; zero values select defaults.
//
// Returns the (possibly re-encoded) bytes, whether an upscale was applied,
// and any error encountered. This is a best-effort heuristic: on any
// failure the original data is returned unmodified alongside the error, so
// callers log and move on rather than propagate.
//
// Very small outputs tend to come from heavily degraded fallback paths and
// can land below display quality floors; resampling with a Catmull-Rom
// kernel trades bytes for smoothness without inventing detail.
func AutoUpscale(data []byte, format Format, quality int, opts UpscaleOptions) ([]byte, bool, error) {
	o := opts.withDefaults()

	if format == FormatSVG {
		// Container format; there is no raster to resample here.
		return data, false, nil
	}
	if len(data) == 0 || len(data) >= o.FloorBytes {
		return data, false, nil
	}

	factor := UpscaleFactor(len(data), o.TargetBytes, o.MaxScale)
	if factor <= 1 {
		return data, false, nil
	}

	img, _, err := Decode(data)
	if err != nil {
		return data, false, fmt.Errorf("auto-upscale decode: %w", err)
	}

	bounds := img.Bounds()
	newW := int(math.Round(float64(bounds.Dx()) * factor))
	newH := int(math.Round(float64(bounds.Dy()) * factor))
	if newW <= bounds.Dx() || newH <= bounds.Dy() {
		return data, false, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)

	out, err := Encode(dst, format, quality)
	if err != nil {
		return data, false, fmt.Errorf("auto-upscale encode: %w", err)
	}
	return out, true, nil
}
