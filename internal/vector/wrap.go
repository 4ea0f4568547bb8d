package vector

import (
	"encoding/base64"
	"fmt"
)

// WrapRaster embeds encoded raster bytes inside a minimal SVG container
// sized to the raster's own dimensions.
//
// This is raster-in-vector packaging, not vectorization: the pixels are
// base64-embedded unchanged, and rendering quality is exactly that of the
// embedded raster. Callers presenting "SVG output" built this way should
// say so.
func WrapRaster(data []byte, mimeType string, width, height int) []byte {
	encoded := base64.StdEncoding.EncodeToString(data)
	return []byte(fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%d" height="%d" viewBox="0 0 %d %d"><image width="%d" height="%d" xlink:href="data:%s;base64,%s"/></svg>`,
		width, height, width, height, width, height, mimeType, encoded))
}
