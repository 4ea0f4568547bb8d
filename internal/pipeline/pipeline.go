package pipeline

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/pixelmill/image-edit-mcp/internal/imaging"
	"github.com/pixelmill/image-edit-mcp/internal/vector"
)

// Filler is the generative-fill capability: extend an image to the target
// dimensions by adding generated background. nil means the AI strategy is
// not configured.
type Filler interface {
	FillCanvas(ctx context.Context, imageData []byte, mimeType string, width, height int) ([]byte, error)
}

// Enhancer is the generative enhancement capability used by EnhanceWithAI.
type Enhancer interface {
	Enhance(ctx context.Context, imageData []byte, mimeType, instruction string) ([]byte, error)
}

// Config assembles a Processor.
type Config struct {
	// Filler provides the AI extension strategy. Leave nil to run
	// deterministic-only.
	Filler Filler

	// Enhancer provides AI enhancement. Usually the same client as Filler.
	Enhancer Enhancer

	// Upscale tunes the auto-upscale heuristic; zero values select
	// defaults.
	Upscale imaging.UpscaleOptions
}

// Processor runs processing requests. Safe for concurrent use; it holds no
// per-request state.
type Processor struct {
	filler   Filler
	enhancer Enhancer
	upscale  imaging.UpscaleOptions
}

// New creates a Processor from a Config.
func New(cfg Config) *Processor {
	return &Processor{
		filler:   cfg.Filler,
		enhancer: cfg.Enhancer,
		upscale:  cfg.Upscale,
	}
}

const (
	// expansionFactor scales the original's linear dimensions to get the
	// expansion target, giving the fill strategy working room before the
	// final aspect crop.
	expansionFactor = 1.5

	// transportMIME is the lossless encoding used on the generative round
	// trip.
	transportMIME = "image/png"

	// minRasterLongSide floors the long side when rasterizing vector input
	// for raster output, so small vectors do not enter the pipeline tiny.
	minRasterLongSide = 2048
)

// ProcessImage runs the full processing pipeline for one request.
//
// Parameters:
//   - ctx: Cancels the request between stages and during the generative
//     call.
//   - data: Encoded input, raster bytes or SVG markup.
//   - opts: Target geometry, output format, quality and strategy.
//
// Returns a ProcessedImage whose metadata reflects the actually-produced
// buffer, or a single *ProcessingError naming the stage that exhausted all
// options. A generative failure alone never fails the request; the
// deterministic fallback takes over and is surfaced via UsedFallback.
func (p *Processor) ProcessImage(ctx context.Context, data []byte, opts Options) (*ProcessedImage, error) {
	if len(data) == 0 {
		return nil, stageErr("validate", ErrNoInput)
	}
	o, err := opts.normalized()
	if err != nil {
		return nil, stageErr("validate", err)
	}

	isVector := vector.IsSVG(data)
	if isVector && o.Format == imaging.FormatSVG {
		return p.processVector(data, o)
	}

	var src image.Image
	if isVector {
		src, err = p.rasterizeInput(data)
		if err != nil {
			return nil, stageErr("rasterize", err)
		}
	} else {
		src, _, err = imaging.Decode(data)
		if err != nil {
			return nil, stageErr("decode", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, stageErr("decode", err)
	}

	bounds := src.Bounds()
	expandW := scaleUp(bounds.Dx())
	expandH := scaleUp(bounds.Dy())

	strategy, substituted := p.resolveStrategy(o.Strategy)
	expanded, applied, usedFallback, err := p.expand(ctx, src, expandW, expandH, strategy)
	if err != nil {
		return nil, stageErr("extend", err)
	}
	usedFallback = usedFallback || substituted
	if err := ctx.Err(); err != nil {
		return nil, stageErr("extend", err)
	}

	cropped, err := imaging.CropToAspectRatio(expanded, o.ratio())
	if err != nil {
		return nil, stageErr("crop", err)
	}

	result, err := EncodeImage(cropped, o.Format, o.Quality)
	if err != nil {
		return nil, stageErr("encode", err)
	}

	p.applyAutoUpscale(result, o.Format, o.Quality)

	result.Strategy = applied
	result.UsedFallback = usedFallback
	logger().Debug("processed image",
		"width", result.Width, "height", result.Height,
		"format", result.Format, "strategy", result.Strategy,
		"used_fallback", result.UsedFallback)
	return result, nil
}

// scaleUp computes one axis of the expansion target.
func scaleUp(n int) int {
	return int(math.Ceil(float64(n) * expansionFactor))
}

// rasterizeInput converts vector markup to pixels at high sampling density:
// at least twice the expansion target's bounding box, with a floor on the
// long side. One-way for the rest of the request.
func (p *Processor) rasterizeInput(data []byte) (image.Image, error) {
	minW, minH := 0, 0
	if vw, vh, err := vector.Dimensions(data); err == nil {
		minW = 2 * scaleUp(vw)
		minH = 2 * scaleUp(vh)
	}
	if minW >= minH {
		if minW < minRasterLongSide {
			minW = minRasterLongSide
		}
	} else if minH < minRasterLongSide {
		minH = minRasterLongSide
	}
	return vector.Rasterize(data, minW, minH)
}

// resolveStrategy maps the requested strategy onto an executable one.
// The second return reports that AI was requested but cannot run.
func (p *Processor) resolveStrategy(s Strategy) (Strategy, bool) {
	switch s {
	case StrategyDeterministic:
		return StrategyDeterministic, false
	case StrategyAI:
		if p.filler == nil {
			logger().Warn("ai strategy requested but no generative capability configured")
			return StrategyDeterministic, true
		}
		return StrategyAI, false
	default: // auto
		if p.filler != nil {
			return StrategyAI, false
		}
		return StrategyDeterministic, false
	}
}

// expand produces the expansion-target buffer via the selected strategy,
// reporting which strategy actually ran and whether a fallback occurred.
func (p *Processor) expand(ctx context.Context, src image.Image, width, height int, strategy Strategy) (image.Image, Strategy, bool, error) {
	if strategy == StrategyAI {
		out, err := p.aiExpand(ctx, src, width, height)
		if err == nil {
			return out, StrategyAI, false, nil
		}
		if ctx.Err() != nil {
			// Canceled, not failed; the fallback must not mask it.
			return nil, "", false, err
		}
		logger().Warn("generative fill failed, using deterministic extension", "error", err)
		det, derr := imaging.ExtendCanvas(src, width, height)
		if derr != nil {
			return nil, "", false, derr
		}
		return det, StrategyDeterministic, true, nil
	}

	out, err := imaging.ExtendCanvas(src, width, height)
	return out, StrategyDeterministic, false, err
}

// aiExpand runs one generative extension: transport encode, submit,
// validate that the response is an image that actually differs from the
// input, and size it up to the expansion target if the service came back
// short.
func (p *Processor) aiExpand(ctx context.Context, src image.Image, width, height int) (image.Image, error) {
	input, err := imaging.EncodeLossless(src)
	if err != nil {
		return nil, fmt.Errorf("transport encode: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	generated, err := p.filler.FillCanvas(ctx, input, transportMIME, width, height)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	different, err := imaging.Differ(input, generated)
	if err != nil {
		return nil, fmt.Errorf("validate generated image: %w", err)
	}
	if !different {
		return nil, ErrFillNoop
	}

	img, _, err := imaging.Decode(generated)
	if err != nil {
		return nil, fmt.Errorf("decode generated image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() < width || b.Dy() < height {
		// The crop stage consumes the full expansion target.
		return imaging.CoverCrop(img, width, height)
	}
	return img, nil
}

// processVector handles vector-in, vector-out requests without
// rasterizing. The AI strategy needs pixels, so when it was requested the
// deterministic path substitutes and the substitution is surfaced.
func (p *Processor) processVector(data []byte, o Options) (*ProcessedImage, error) {
	strategy, _ := p.resolveStrategy(o.Strategy)
	substituted := strategy == StrategyAI
	if substituted {
		logger().Warn("ai strategy is incompatible with vector-native output, using deterministic extension")
	}

	origW, origH, err := vector.Dimensions(data)
	if err != nil {
		return nil, stageErr("vector", err)
	}

	var out []byte
	if o.TargetWidth <= origW && o.TargetHeight <= origH {
		out, err = vector.Resize(data, o.TargetWidth, o.TargetHeight)
	} else {
		out, err = vector.Extend(data, o.TargetWidth, o.TargetHeight)
	}
	if err != nil {
		return nil, stageErr("vector", err)
	}

	w, h, err := vector.Dimensions(out)
	if err != nil {
		w, h = o.TargetWidth, o.TargetHeight
	}
	return &ProcessedImage{
		Data:         out,
		Width:        w,
		Height:       h,
		Format:       imaging.FormatSVG,
		SizeBytes:    len(out),
		Strategy:     StrategyDeterministic,
		UsedFallback: substituted,
	}, nil
}

// applyAutoUpscale runs the byte-floor heuristic in place. Failures are
// logged and the result keeps its current data.
func (p *Processor) applyAutoUpscale(result *ProcessedImage, format imaging.Format, quality int) {
	out, upscaled, err := imaging.AutoUpscale(result.Data, format, quality, p.upscale)
	if err != nil {
		logger().Warn("auto-upscale failed, keeping original output", "error", err)
		return
	}
	if !upscaled {
		return
	}
	if w, h, _, err := imaging.DecodeBounds(out); err == nil {
		result.Width = w
		result.Height = h
	}
	result.Data = out
	result.SizeBytes = len(out)
	result.Upscaled = true
}
