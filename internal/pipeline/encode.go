package pipeline

import (
	"fmt"
	"image"

	"github.com/pixelmill/image-edit-mcp/internal/imaging"
	"github.com/pixelmill/image-edit-mcp/internal/vector"
)

// EncodeImage serializes a working buffer to the requested output format
// and returns it with metadata read from the buffer itself.
//
// SVG output is raster-in-vector packaging: the pixels are encoded
// losslessly and base64-embedded in a minimal SVG container sized to the
// raster's own dimensions. It is not vectorization.
func EncodeImage(img image.Image, format imaging.Format, quality int) (*ProcessedImage, error) {
	bounds := img.Bounds()

	if format == imaging.FormatSVG {
		payload, err := imaging.EncodeLossless(img)
		if err != nil {
			return nil, fmt.Errorf("failed to encode svg payload: %w", err)
		}
		data := vector.WrapRaster(payload, "image/png", bounds.Dx(), bounds.Dy())
		return &ProcessedImage{
			Data:      data,
			Width:     bounds.Dx(),
			Height:    bounds.Dy(),
			Format:    format,
			SizeBytes: len(data),
		}, nil
	}

	data, err := imaging.Encode(img, format, quality)
	if err != nil {
		return nil, err
	}
	return &ProcessedImage{
		Data:      data,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Format:    format,
		SizeBytes: len(data),
	}, nil
}

// Convert decodes input and re-encodes it to the requested format and
// quality. Vector input is rasterized first (one-way, intrinsic size).
func Convert(data []byte, format imaging.Format, quality int) (*ProcessedImage, error) {
	if len(data) == 0 {
		return nil, stageErr("validate", ErrNoInput)
	}

	var img image.Image
	var err error
	if vector.IsSVG(data) {
		img, err = vector.Rasterize(data, 0, 0)
		if err != nil {
			return nil, stageErr("rasterize", err)
		}
	} else {
		img, _, err = imaging.Decode(data)
		if err != nil {
			return nil, stageErr("decode", err)
		}
	}

	result, err := EncodeImage(img, format, quality)
	if err != nil {
		return nil, stageErr("encode", err)
	}
	return result, nil
}
