package vector

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	rectTagRe   = regexp.MustCompile(`(?is)<rect\b[^>]*>`)
	fillAttrRe  = regexp.MustCompile(`(?i)\bfill\s*=\s*("[^"]*"|'[^']*')`)
	styleFillRe = regexp.MustCompile(`(?i)fill\s*:\s*([^;"'}]+)`)
	rgbFuncRe   = regexp.MustCompile(`(?i)^rgb\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*\)$`)
)

// BackgroundColor detects a representative background color from SVG markup.
//
// There are no pixels to sample, so this is a heuristic stand-in for edge
// sampling: an explicit full-canvas rectangle's fill wins, then the first
// fill color encountered anywhere in the content, then white.
func BackgroundColor(markup []byte) string {
	doc, err := parseDocument(markup)
	if err != nil {
		return "#ffffff"
	}
	w, h, _ := docDimensions(doc)
	return backgroundColorOf(doc, w, h)
}

func backgroundColorOf(doc *document, origW, origH int) string {
	// An explicit background rectangle is the strongest signal.
	for _, tag := range rectTagRe.FindAllString(doc.inner, -1) {
		if !coversCanvas(tag, origW, origH) {
			continue
		}
		if c, ok := fillOf(tag); ok {
			return c
		}
	}

	// Otherwise the first fill in document order.
	if c, ok := fillOf(doc.inner); ok {
		return c
	}
	if c, ok := firstStyleFill(doc.inner); ok {
		return c
	}
	return "#ffffff"
}

// coversCanvas reports whether a rect tag spans the whole canvas, either via
// percentage dimensions or by matching the document size at the origin.
func coversCanvas(tag string, origW, origH int) bool {
	w, wOK := attrValue(widthRe, tag)
	h, hOK := attrValue(heightRe, tag)
	if !wOK || !hOK {
		return false
	}
	if strings.TrimSpace(w) == "100%" && strings.TrimSpace(h) == "100%" {
		return true
	}
	if origW <= 0 || origH <= 0 {
		return false
	}
	wf, ok1 := parseLength(w)
	hf, ok2 := parseLength(h)
	if !ok1 || !ok2 || int(wf) < origW || int(hf) < origH {
		return false
	}
	// x/y default to 0 when absent.
	if x, ok := attrValue(xAttrRe, tag); ok {
		if xf, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err != nil || xf > 0 {
			return false
		}
	}
	if y, ok := attrValue(yAttrRe, tag); ok {
		if yf, err := strconv.ParseFloat(strings.TrimSpace(y), 64); err != nil || yf > 0 {
			return false
		}
	}
	return true
}

// fillOf extracts the first usable fill color from a fragment, checking
// fill attributes first and style declarations second. Non-colors such as
// "none" or gradient references are skipped, not taken as the answer.
func fillOf(fragment string) (string, bool) {
	for _, m := range fillAttrRe.FindAllStringSubmatch(fragment, -1) {
		if c, ok := normalizeColor(m[1][1 : len(m[1])-1]); ok {
			return c, true
		}
	}
	return firstStyleFill(fragment)
}

func firstStyleFill(fragment string) (string, bool) {
	for _, m := range styleFillRe.FindAllStringSubmatch(fragment, -1) {
		if c, ok := normalizeColor(m[1]); ok {
			return c, true
		}
	}
	return "", false
}

// normalizeColor canonicalizes a color value to lowercase hex where it can,
// passing named colors through. Non-colors (none, gradients, references)
// are rejected.
func normalizeColor(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	lower := strings.ToLower(v)
	switch lower {
	case "none", "transparent", "currentcolor", "inherit":
		return "", false
	}
	if strings.HasPrefix(lower, "url(") {
		return "", false
	}
	if strings.HasPrefix(v, "#") {
		if c, err := colorful.Hex(v); err == nil {
			return c.Hex(), true
		}
		return "", false
	}
	if m := rgbFuncRe.FindStringSubmatch(v); m != nil {
		r, _ := strconv.Atoi(m[1])
		g, _ := strconv.Atoi(m[2])
		b, _ := strconv.Atoi(m[3])
		if r > 255 || g > 255 || b > 255 {
			return "", false
		}
		return fmt.Sprintf("#%02x%02x%02x", r, g, b), true
	}
	// Named color; trust the renderer to resolve it.
	return lower, true
}
