package pipeline

import (
	"fmt"

	"github.com/pixelmill/image-edit-mcp/internal/imaging"
)

// Strategy selects how area the original image does not cover gets filled.
// The set is closed: there are exactly two fill approaches plus an
// auto-resolution value, and no plugin extensibility.
type Strategy string

const (
	// StrategyAuto resolves to AI when a generative capability is
	// configured, deterministic otherwise.
	StrategyAuto Strategy = "auto"

	// StrategyAI extends the canvas with generated background.
	StrategyAI Strategy = "ai"

	// StrategyDeterministic extends the canvas with the sampled edge color.
	StrategyDeterministic Strategy = "deterministic"
)

// ParseStrategy normalizes a strategy name. Empty selects auto.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case "":
		return StrategyAuto, nil
	case StrategyAuto, StrategyAI, StrategyDeterministic:
		return Strategy(name), nil
	default:
		return "", fmt.Errorf("unknown strategy: %q", name)
	}
}

// Options is the immutable input to a processing request.
type Options struct {
	// TargetWidth and TargetHeight define the requested output geometry.
	// Their ratio drives the final crop; the vector-native path hits them
	// exactly.
	TargetWidth  int
	TargetHeight int

	// Format is the output encoding. Empty defaults to PNG.
	Format imaging.Format

	// Quality is the lossy encode quality 1-100. Zero defaults to 90.
	Quality int

	// Strategy selects the fill approach. Empty defaults to auto.
	Strategy Strategy
}

// DefaultQuality is used when a request does not specify one.
const DefaultQuality = 90

func (o Options) normalized() (Options, error) {
	if o.TargetWidth <= 0 || o.TargetHeight <= 0 {
		return o, fmt.Errorf("%w: got %dx%d", ErrBadDimensions, o.TargetWidth, o.TargetHeight)
	}
	if o.Format == "" {
		o.Format = imaging.FormatPNG
	}
	if o.Quality == 0 {
		o.Quality = DefaultQuality
	}
	if o.Quality < 1 {
		o.Quality = 1
	}
	if o.Quality > 100 {
		o.Quality = 100
	}
	if o.Strategy == "" {
		o.Strategy = StrategyAuto
	}
	return o, nil
}

// ratio returns the target aspect ratio as width/height.
func (o Options) ratio() float64 {
	return float64(o.TargetWidth) / float64(o.TargetHeight)
}

// ProcessedImage is the terminal artifact of a request. Metadata is always
// read back from the produced buffer, never copied from the requested
// target, since fill and crop stages do not always hit exact pixel counts.
type ProcessedImage struct {
	Data         []byte         `json:"-"`
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	Format       imaging.Format `json:"format"`
	SizeBytes    int            `json:"size_bytes"`
	Strategy     Strategy       `json:"strategy,omitempty"`
	UsedFallback bool           `json:"used_fallback"`
	Upscaled     bool           `json:"upscaled,omitempty"`
}
