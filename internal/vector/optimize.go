package vector

import (
	"bytes"
	"fmt"

	"github.com/tdewolff/minify/v2"
	minsvg "github.com/tdewolff/minify/v2/svg"
)

const svgMediaType = "image/svg+xml"

var minifier = func() *minify.M {
	m := minify.New()
	m.AddFunc(svgMediaType, minsvg.Minify)
	return m
}()

// Optimize minifies SVG markup: whitespace, comments and redundant number
// precision are stripped while the document stays semantically equivalent.
// viewBox and id attributes survive minification; the viewBox carries the
// coordinate-system rescale and ids may be referenced externally.
func Optimize(markup []byte) ([]byte, error) {
	var out bytes.Buffer
	if err := minifier.Minify(svgMediaType, &out, bytes.NewReader(markup)); err != nil {
		return nil, fmt.Errorf("failed to optimize svg: %w", err)
	}
	return out.Bytes(), nil
}
