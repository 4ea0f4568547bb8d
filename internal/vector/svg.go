package vector

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidMarkup is returned when input cannot be parsed as an SVG
// document. The vector path has no fallback for it: markup that does not
// parse cannot be resized or extended, so the error is terminal.
var ErrInvalidMarkup = errors.New("invalid svg markup")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// IsSVG reports whether data looks like an SVG document. It sniffs for the
// root <svg tag past any BOM, whitespace, XML declaration, comments and
// doctype. It does not validate the document.
func IsSVG(data []byte) bool {
	_, ok := rootTagOffset(data)
	return ok
}

// rootTagOffset returns the byte offset of the root "<svg" tag, skipping
// leading prolog constructs.
func rootTagOffset(data []byte) (int, bool) {
	rest := bytes.TrimPrefix(data, utf8BOM)
	offset := len(data) - len(rest)

	for {
		trimmed := bytes.TrimLeft(rest, " \t\r\n")
		offset += len(rest) - len(trimmed)
		rest = trimmed

		switch {
		case len(rest) < 4:
			return 0, false
		case bytes.HasPrefix(rest, []byte("<!--")):
			end := bytes.Index(rest, []byte("-->"))
			if end < 0 {
				return 0, false
			}
			offset += end + 3
			rest = rest[end+3:]
		case bytes.HasPrefix(rest, []byte("<?")), bytes.HasPrefix(rest, []byte("<!")):
			end := bytes.IndexByte(rest, '>')
			if end < 0 {
				return 0, false
			}
			offset += end + 1
			rest = rest[end+1:]
		default:
			lower := bytes.ToLower(rest[:4])
			if !bytes.HasPrefix(lower, []byte("<svg")) {
				return 0, false
			}
			if len(rest) > 4 {
				switch rest[4] {
				case ' ', '\t', '\r', '\n', '>', '/':
				default:
					return 0, false
				}
			}
			return offset, true
		}
	}
}

// document is a minimally parsed SVG: the untouched prolog, the root tag's
// raw attribute text, and the verbatim inner content.
type document struct {
	prolog string
	attrs  string
	inner  string
}

// parseDocument locates the root tag and splits the markup around it.
// The inner content is never interpreted.
func parseDocument(markup []byte) (*document, error) {
	start, ok := rootTagOffset(markup)
	if !ok {
		return nil, fmt.Errorf("%w: no root svg element", ErrInvalidMarkup)
	}

	s := string(markup)
	// Find the end of the opening tag, honoring quoted attribute values.
	tagEnd := -1
	selfClosed := false
	var quote byte
	for i := start + 4; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '>':
			tagEnd = i
			selfClosed = i > start && s[i-1] == '/'
		}
		if tagEnd >= 0 {
			break
		}
	}
	if tagEnd < 0 {
		return nil, fmt.Errorf("%w: unterminated root tag", ErrInvalidMarkup)
	}

	attrs := s[start+4 : tagEnd]
	if selfClosed {
		attrs = strings.TrimSuffix(attrs, "/")
		return &document{prolog: s[:start], attrs: attrs, inner: ""}, nil
	}

	closeIdx := strings.LastIndex(s, "</svg")
	if closeIdx < 0 || closeIdx < tagEnd {
		return nil, fmt.Errorf("%w: missing closing svg tag", ErrInvalidMarkup)
	}
	return &document{
		prolog: s[:start],
		attrs:  s[start+4 : tagEnd],
		inner:  s[tagEnd+1 : closeIdx],
	}, nil
}

func (d *document) render() []byte {
	var b strings.Builder
	b.WriteString(d.prolog)
	b.WriteString("<svg")
	attrs := strings.TrimSpace(d.attrs)
	if attrs != "" {
		b.WriteByte(' ')
		b.WriteString(attrs)
	}
	b.WriteByte('>')
	b.WriteString(d.inner)
	b.WriteString("</svg>")
	return []byte(b.String())
}

var (
	widthRe   = attrRegexp("width")
	heightRe  = attrRegexp("height")
	viewBoxRe = attrRegexp("viewBox")
	xAttrRe   = attrRegexp("x")
	yAttrRe   = attrRegexp("y")
	xmlnsRe   = attrRegexp("xmlns")
)

func attrRegexp(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(^|\s)` + regexp.QuoteMeta(name) + `\s*=\s*("[^"]*"|'[^']*')`)
}

// attrValue extracts an attribute value from raw attribute text.
func attrValue(re *regexp.Regexp, attrs string) (string, bool) {
	m := re.FindStringSubmatch(attrs)
	if m == nil {
		return "", false
	}
	quoted := m[2]
	return quoted[1 : len(quoted)-1], true
}

// setAttr replaces an attribute in raw attribute text, appending it when
// absent.
func setAttr(re *regexp.Regexp, attrs, name, value string) string {
	replacement := fmt.Sprintf(`%s="%s"`, name, value)
	if re.MatchString(attrs) {
		return re.ReplaceAllString(attrs, `${1}`+replacement)
	}
	attrs = strings.TrimRight(attrs, " \t\r\n")
	if attrs == "" {
		return replacement
	}
	return attrs + " " + replacement
}

func removeAttr(re *regexp.Regexp, attrs string) string {
	return re.ReplaceAllString(attrs, `${1}`)
}

// parseLength parses an SVG length attribute in user units or px.
// Percentages and other units do not describe absolute pixels and are
// rejected.
func parseLength(v string) (float64, bool) {
	v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "px"))
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseViewBox parses the four numbers of a viewBox attribute.
func parseViewBox(v string) (minX, minY, w, h float64, ok bool) {
	fields := strings.FieldsFunc(v, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r'
	})
	nums := make([]float64, 0, 4)
	for _, f := range fields {
		if f == "" {
			continue
		}
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return 0, 0, 0, 0, false
		}
		nums = append(nums, n)
	}
	if len(nums) != 4 || nums[2] <= 0 || nums[3] <= 0 {
		return 0, 0, 0, 0, false
	}
	return nums[0], nums[1], nums[2], nums[3], true
}

// Dimensions returns the pixel dimensions of SVG markup, from the root
// width/height attributes or, failing that, the viewBox extent.
func Dimensions(markup []byte) (width, height int, err error) {
	doc, err := parseDocument(markup)
	if err != nil {
		return 0, 0, err
	}
	return docDimensions(doc)
}

func docDimensions(doc *document) (int, int, error) {
	wAttr, wOK := attrValue(widthRe, doc.attrs)
	hAttr, hOK := attrValue(heightRe, doc.attrs)
	if wOK && hOK {
		if w, ok1 := parseLength(wAttr); ok1 {
			if h, ok2 := parseLength(hAttr); ok2 {
				return int(math.Round(w)), int(math.Round(h)), nil
			}
		}
	}
	if vb, ok := attrValue(viewBoxRe, doc.attrs); ok {
		if _, _, w, h, ok := parseViewBox(vb); ok {
			return int(math.Round(w)), int(math.Round(h)), nil
		}
	}
	return 0, 0, fmt.Errorf("%w: no usable width/height or viewBox", ErrInvalidMarkup)
}

// Resize rewrites SVG markup to the target dimensions without touching any
// child geometry.
//
// Parameters:
//   - markup: Source SVG document.
//   - width, height: Target dimensions in pixels, both positive.
//
// Only the root element changes: width and height are set to the target,
// and the viewBox is preserved (or synthesized from the original
// width/height, defaulting to the target when neither exists) so the
// content rescales as a pure coordinate-system transform. The inner content
// is returned byte-identical to the input.
func Resize(markup []byte, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid resize target %dx%d: dimensions must be positive", width, height)
	}
	doc, err := parseDocument(markup)
	if err != nil {
		return nil, err
	}

	viewBox, ok := attrValue(viewBoxRe, doc.attrs)
	if !ok || !validViewBox(viewBox) {
		if ow, oh, err := docDimensions(doc); err == nil {
			viewBox = fmt.Sprintf("0 0 %d %d", ow, oh)
		} else {
			viewBox = fmt.Sprintf("0 0 %d %d", width, height)
		}
	}

	attrs := doc.attrs
	attrs = setAttr(widthRe, attrs, "width", strconv.Itoa(width))
	attrs = setAttr(heightRe, attrs, "height", strconv.Itoa(height))
	attrs = setAttr(viewBoxRe, attrs, "viewBox", viewBox)
	doc.attrs = attrs

	return doc.render(), nil
}

func validViewBox(v string) bool {
	_, _, _, _, ok := parseViewBox(v)
	return ok
}

// Extend grows SVG markup to the target dimensions by synthesizing a new
// root element containing a full-canvas background rectangle and the
// original content wrapped in a centering translation.
//
// Parameters:
//   - markup: Source SVG document.
//   - width, height: Target dimensions in pixels. Axes not exceeding the
//     original still render correctly; the translation offset is floored
//     at zero.
//
// The background color comes from BackgroundColor. The result is run
// through Optimize; if optimization fails the unoptimized markup is
// returned, since a larger-but-valid document beats no document.
func Extend(markup []byte, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid extend target %dx%d: dimensions must be positive", width, height)
	}
	doc, err := parseDocument(markup)
	if err != nil {
		return nil, err
	}
	origW, origH, err := docDimensions(doc)
	if err != nil {
		return nil, err
	}

	dx := (width - origW) / 2
	dy := (height - origH) / 2
	if dx < 0 {
		dx = 0
	}
	if dy < 0 {
		dy = 0
	}

	bg := backgroundColorOf(doc, origW, origH)

	attrs := doc.attrs
	attrs = removeAttr(xAttrRe, attrs)
	attrs = removeAttr(yAttrRe, attrs)
	attrs = setAttr(widthRe, attrs, "width", strconv.Itoa(width))
	attrs = setAttr(heightRe, attrs, "height", strconv.Itoa(height))
	attrs = setAttr(viewBoxRe, attrs, "viewBox", fmt.Sprintf("0 0 %d %d", width, height))
	if _, ok := attrValue(xmlnsRe, attrs); !ok {
		attrs = setAttr(xmlnsRe, attrs, "xmlns", "http://www.w3.org/2000/svg")
	}

	var body strings.Builder
	fmt.Fprintf(&body, `<rect width="%d" height="%d" fill="%s"/>`, width, height, bg)
	fmt.Fprintf(&body, `<g transform="translate(%d,%d)">`, dx, dy)
	body.WriteString(doc.inner)
	body.WriteString("</g>")

	out := (&document{prolog: doc.prolog, attrs: attrs, inner: body.String()}).render()

	optimized, err := Optimize(out)
	if err != nil {
		return out, nil
	}
	return optimized, nil
}
