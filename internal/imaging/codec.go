package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"strings"
	"sync"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrUnsupportedFormat is returned when an image cannot be decoded or the
// requested output encoding is not one of the supported formats.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Format identifies an output image encoding.
type Format string

// Supported output formats.
const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"

	// FormatSVG is a raster-in-vector container: the pixel data is encoded
	// losslessly and embedded in an SVG wrapper. It is not vectorization.
	FormatSVG Format = "svg"
)

// ParseFormat normalizes a format name to a Format value.
//
// Accepted names are "jpeg" (alias "jpg"), "png", "webp" and "svg",
// case-insensitive. An empty string defaults to PNG.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "webp":
		return FormatWebP, nil
	case "svg":
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// MimeType returns the MIME type for the format.
func (f Format) MimeType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatWebP:
		return "image/webp"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "image/png"
	}
}

// decodeSlots caps the number of decode/encode pipelines in flight across the
// whole process. Large images allocate multi-hundred-megabyte pixel buffers
// while being decoded, so the default capacity is 1: one image through the
// codec at a time, independent requests queue on the slot.
var (
	slotMu      sync.Mutex
	decodeSlots = make(chan struct{}, 1)
)

// Configure sets the maximum number of concurrent decode/encode operations.
//
// Call once at process start, before any image is processed. Values below 1
// are treated as 1. Raising the cap trades peak memory for throughput when
// many independent requests are served from one process.
func Configure(maxParallel int) {
	if maxParallel < 1 {
		maxParallel = 1
	}
	slotMu.Lock()
	decodeSlots = make(chan struct{}, maxParallel)
	slotMu.Unlock()
}

func acquireSlot() chan struct{} {
	slotMu.Lock()
	slots := decodeSlots
	slotMu.Unlock()
	slots <- struct{}{}
	return slots
}

// bufPool reuses encode scratch buffers across requests.
var bufPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

// Decode decodes raster image bytes into an in-memory image.
//
// Parameters:
//   - data: Encoded image bytes. Supported inputs are PNG, JPEG, GIF and WebP.
//
// Returns:
//   - image.Image: The decoded image. The concrete type depends on the source
//     format and color model (e.g., *image.NRGBA, *image.YCbCr).
//   - string: The detected source format name ("png", "jpeg", "gif", "webp").
//   - error: Non-nil if the bytes are empty or not a decodable image; wraps
//     ErrUnsupportedFormat when the format is unrecognized.
//
// Decode holds a codec slot for its duration (see Configure).
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty input", ErrUnsupportedFormat)
	}

	slots := acquireSlot()
	defer func() { <-slots }()

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if strings.Contains(err.Error(), "unknown format") {
			return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// DecodeBounds returns the dimensions and format of encoded image bytes
// without decoding the pixel data.
func DecodeBounds(data []byte) (width, height int, format string, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if strings.Contains(err.Error(), "unknown format") {
			return 0, 0, "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		return 0, 0, "", fmt.Errorf("failed to read image header: %w", err)
	}
	return cfg.Width, cfg.Height, format, nil
}

// Encode serializes an image to the requested raster format.
//
// Parameters:
//   - img: The image to encode.
//   - format: One of FormatJPEG, FormatPNG, FormatWebP. FormatSVG is a
//     container format and is rejected here; wrapping happens upstream.
//   - quality: Lossy quality 1-100. Ignored for PNG. Values outside the
//     range are clamped.
//
// Returns a fresh byte slice owned by the caller. Encode holds a codec slot
// for its duration and borrows its scratch buffer from an internal pool.
func Encode(img image.Image, format Format, quality int) ([]byte, error) {
	if quality < 1 {
		quality = 1
	} else if quality > 100 {
		quality = 100
	}

	slots := acquireSlot()
	defer func() { <-slots }()

	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufPool.Put(buf)

	var err error
	switch format {
	case FormatJPEG:
		err = imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case FormatPNG:
		err = imaging.Encode(buf, img, imaging.PNG)
	case FormatWebP:
		err = webp.Encode(buf, img, &webp.Options{Quality: float32(quality)})
	default:
		return nil, fmt.Errorf("%w: cannot encode %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", format, err)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// EncodeLossless serializes an image without lossy compression. PNG is used
// as the lossless carrier; it is the transport encoding for the generative
// fill round trip and the payload encoding for SVG-wrapped output.
func EncodeLossless(img image.Image) ([]byte, error) {
	return Encode(img, FormatPNG, 100)
}
