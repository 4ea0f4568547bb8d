package pipeline

import (
	"context"
	"fmt"
	"image"

	"github.com/pixelmill/image-edit-mcp/internal/imaging"
)

// EnhanceWithAI applies a free-form enhancement instruction through the
// generative capability, validated the same way as generative fill. When
// the capability is missing or fails, a deterministic stand-in (unsharp
// mask plus a mild contrast lift) runs instead and the result reports
// UsedFallback.
//
// Vector input is not supported here; enhancement operates on pixels.
func (p *Processor) EnhanceWithAI(ctx context.Context, data []byte, instruction string, format imaging.Format, quality int) (*ProcessedImage, error) {
	if len(data) == 0 {
		return nil, stageErr("validate", ErrNoInput)
	}
	if format == "" {
		format = imaging.FormatPNG
	}
	if quality <= 0 {
		quality = DefaultQuality
	}

	src, _, err := imaging.Decode(data)
	if err != nil {
		return nil, stageErr("decode", err)
	}

	enhanced, usedFallback, err := p.aiEnhance(ctx, src, instruction)
	if err != nil {
		return nil, stageErr("enhance", err)
	}

	result, err := EncodeImage(enhanced, format, quality)
	if err != nil {
		return nil, stageErr("encode", err)
	}
	if usedFallback {
		result.Strategy = StrategyDeterministic
	} else {
		result.Strategy = StrategyAI
	}
	result.UsedFallback = usedFallback
	return result, nil
}

func (p *Processor) aiEnhance(ctx context.Context, src image.Image, instruction string) (image.Image, bool, error) {
	if p.enhancer == nil {
		return deterministicEnhance(src), true, nil
	}

	out, err := p.tryEnhance(ctx, src, instruction)
	if err == nil {
		return out, false, nil
	}
	if ctx.Err() != nil {
		return nil, false, err
	}
	logger().Warn("generative enhancement failed, using deterministic stand-in", "error", err)
	return deterministicEnhance(src), true, nil
}

func (p *Processor) tryEnhance(ctx context.Context, src image.Image, instruction string) (image.Image, error) {
	input, err := imaging.EncodeLossless(src)
	if err != nil {
		return nil, fmt.Errorf("transport encode: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	generated, err := p.enhancer.Enhance(ctx, input, transportMIME, instruction)
	if err != nil {
		return nil, err
	}

	different, err := imaging.Differ(input, generated)
	if err != nil {
		return nil, fmt.Errorf("validate enhanced image: %w", err)
	}
	if !different {
		return nil, ErrFillNoop
	}

	img, _, err := imaging.Decode(generated)
	if err != nil {
		return nil, fmt.Errorf("decode enhanced image: %w", err)
	}
	return img, nil
}

// deterministicEnhance is the no-AI stand-in: a gentle unsharp mask plus a
// small contrast lift.
func deterministicEnhance(src image.Image) image.Image {
	out := imaging.Sharpen(src, 1.0)
	if adjusted, err := imaging.ApplyFilter(out, "contrast", 0.1); err == nil {
		out = adjusted
	}
	return out
}

// AutoUpscale exposes the byte-floor upscale heuristic as its own entry
// point. Undecodable input fails; a failed upscale of valid input returns
// the input unchanged, per the heuristic's best-effort contract.
func (p *Processor) AutoUpscale(data []byte, format imaging.Format, quality int) (*ProcessedImage, error) {
	if len(data) == 0 {
		return nil, stageErr("validate", ErrNoInput)
	}
	if format == "" {
		format = imaging.FormatPNG
	}
	if quality <= 0 {
		quality = DefaultQuality
	}

	w, h, _, err := imaging.DecodeBounds(data)
	if err != nil {
		return nil, stageErr("decode", err)
	}

	result := &ProcessedImage{Data: data, Width: w, Height: h, Format: format, SizeBytes: len(data)}
	p.applyAutoUpscale(result, format, quality)
	return result, nil
}
