package pipeline

import (
	"github.com/pixelmill/image-edit-mcp/internal/imaging"
	"github.com/pixelmill/image-edit-mcp/internal/vector"
)

// Dimensions describes an image's geometry without its pixel data.
type Dimensions struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// GetDimensions reads the dimensions and format of encoded input. Raster
// headers are parsed without decoding pixel data; vector markup reports its
// declared geometry.
func GetDimensions(data []byte) (*Dimensions, error) {
	if len(data) == 0 {
		return nil, stageErr("validate", ErrNoInput)
	}

	if vector.IsSVG(data) {
		w, h, err := vector.Dimensions(data)
		if err != nil {
			return nil, stageErr("vector", err)
		}
		return &Dimensions{Width: w, Height: h, Format: "svg"}, nil
	}

	w, h, format, err := imaging.DecodeBounds(data)
	if err != nil {
		return nil, stageErr("decode", err)
	}
	return &Dimensions{Width: w, Height: h, Format: format}, nil
}
