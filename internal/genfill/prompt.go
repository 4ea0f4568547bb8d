package genfill

import "fmt"

// fillInstruction builds the instruction for a canvas-extension request.
// The wording is strict on purpose: the service must only add background,
// never rescale or crop what is already there.
func fillInstruction(width, height int) string {
	return fmt.Sprintf(
		"Extend this image to exactly %d x %d pixels. "+
			"Keep the original image content completely unchanged: do not scale it, "+
			"do not crop it, and do not redraw any part of it. "+
			"Center the original content on the new canvas and fill only the newly "+
			"added area with background that continues the existing image seamlessly.",
		width, height)
}

// defaultEnhanceInstruction is used when an enhancement request carries no
// instruction of its own.
const defaultEnhanceInstruction = "Enhance this image: improve sharpness, " +
	"contrast and color balance while keeping the composition, framing and " +
	"dimensions exactly as they are."
