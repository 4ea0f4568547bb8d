package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// imageProperty is the schema fragment shared by every tool: the image
// travels inline as base64 rather than by filesystem path, so the server
// works for browser-originated content that never touches disk.
func imageProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Base64-encoded image data (PNG, JPEG, WebP, or SVG markup)",
	}
}

func formatProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"png", "jpeg", "webp", "svg"},
		"description": "Output format (default png)",
		"default":     "png",
	}
}

func qualityProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Encoding quality 1-100 for lossy formats (default 90)",
		"default":     90,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Core pipeline
		{
			Name:        "image_process",
			Description: "Transform an image to a target size and aspect ratio: the canvas is extended (generative fill when available, edge-color fill otherwise), center-cropped to the target ratio, encoded, and auto-upscaled if the result is too small. SVG input with SVG output stays vector.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image":  imageProperty(),
					"width":  map[string]interface{}{"type": "integer", "description": "Target width in pixels"},
					"height": map[string]interface{}{"type": "integer", "description": "Target height in pixels"},
					"format": formatProperty(),
					"quality": qualityProperty(),
					"strategy": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"auto", "ai", "deterministic"},
						"description": "Canvas extension strategy (default auto)",
						"default":     "auto",
					},
				},
				"required": []string{"image", "width", "height"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width, height, and detected format of an image without processing it. Works for raster formats and SVG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image": imageProperty(),
				},
				"required": []string{"image"},
			},
		},
		{
			Name:        "image_convert",
			Description: "Re-encode an image into a different format. SVG input is rasterized at its intrinsic size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image":   imageProperty(),
					"format":  formatProperty(),
					"quality": qualityProperty(),
				},
				"required": []string{"image", "format"},
			},
		},

		// Pixel adjustments
		{
			Name:        "image_sharpen",
			Description: "Sharpen an image using an unsharp mask.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image": imageProperty(),
					"amount": map[string]interface{}{
						"type":        "number",
						"description": "Sharpening strength 0-10 (default 1.0)",
						"default":     1.0,
					},
					"format":  formatProperty(),
					"quality": qualityProperty(),
				},
				"required": []string{"image"},
			},
		},
		{
			Name:        "image_filter",
			Description: "Apply a named filter to an image (grayscale, sepia, invert, blur, edge-detect, brightness, contrast, saturation).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image": imageProperty(),
					"filter": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"grayscale", "sepia", "invert", "blur", "edge-detect", "brightness", "contrast", "saturation"},
						"description": "Filter to apply",
					},
					"amount": map[string]interface{}{
						"type":        "number",
						"description": "Filter strength where applicable (blur radius, adjustment delta)",
					},
					"format":  formatProperty(),
					"quality": qualityProperty(),
				},
				"required": []string{"image", "filter"},
			},
		},
		{
			Name:        "image_rotate_flip",
			Description: "Rotate an image by a multiple of 90 degrees and/or mirror it horizontally or vertically.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image": imageProperty(),
					"rotate": map[string]interface{}{
						"type":        "integer",
						"enum":        []int{0, 90, 180, 270},
						"description": "Clockwise rotation in degrees (default 0)",
						"default":     0,
					},
					"flip_horizontal": map[string]interface{}{
						"type":        "boolean",
						"description": "Mirror left-right",
						"default":     false,
					},
					"flip_vertical": map[string]interface{}{
						"type":        "boolean",
						"description": "Mirror top-bottom",
						"default":     false,
					},
					"format":  formatProperty(),
					"quality": qualityProperty(),
				},
				"required": []string{"image"},
			},
		},

		// Generative and heuristic enhancement
		{
			Name:        "image_enhance_ai",
			Description: "Enhance an image using the generative service when configured, with a deterministic sharpen-and-contrast fallback otherwise. An optional instruction guides the enhancement.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image": imageProperty(),
					"instruction": map[string]interface{}{
						"type":        "string",
						"description": "Optional natural-language enhancement instruction",
					},
					"format":  formatProperty(),
					"quality": qualityProperty(),
				},
				"required": []string{"image"},
			},
		},
		{
			Name:        "image_upscale",
			Description: "Upscale an image whose encoded size falls below the configured byte floor. Returns the input unchanged when it is already large enough.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image":   imageProperty(),
					"format":  formatProperty(),
					"quality": qualityProperty(),
				},
				"required": []string{"image"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
