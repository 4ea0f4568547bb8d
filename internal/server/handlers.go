package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pixelmill/image-edit-mcp/internal/imaging"
	"github.com/pixelmill/image-edit-mcp/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_process", "image_convert").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Decodes the inline base64 image payload
//  4. Calls the appropriate pipeline/imaging function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Core pipeline
	case "image_process":
		return s.handleImageProcess(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_convert":
		return s.handleImageConvert(args)

	// Pixel adjustments
	case "image_sharpen":
		return s.handleImageSharpen(args)
	case "image_filter":
		return s.handleImageFilter(args)
	case "image_rotate_flip":
		return s.handleImageRotateFlip(args)

	// Generative and heuristic enhancement
	case "image_enhance_ai":
		return s.handleImageEnhanceAI(args)
	case "image_upscale":
		return s.handleImageUpscale(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeImagePayload decodes the base64 image argument. A data-URI prefix
// is tolerated so browser callers can pass canvas.toDataURL output directly.
func decodeImagePayload(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, fmt.Errorf("image payload is empty")
	}
	if idx := strings.Index(encoded, ";base64,"); idx >= 0 {
		encoded = encoded[idx+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image payload: %w", err)
	}
	return data, nil
}

// imageResult is the common shape returned by every tool that produces
// an image: the payload re-encoded as base64 plus its metadata.
type imageResult struct {
	Image        string `json:"image"`
	MimeType     string `json:"mime_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Format       string `json:"format"`
	SizeBytes    int    `json:"size_bytes"`
	Strategy     string `json:"strategy,omitempty"`
	UsedFallback bool   `json:"used_fallback,omitempty"`
	Upscaled     bool   `json:"upscaled,omitempty"`
}

func toImageResult(p *pipeline.ProcessedImage) *imageResult {
	return &imageResult{
		Image:        base64.StdEncoding.EncodeToString(p.Data),
		MimeType:     p.Format.MimeType(),
		Width:        p.Width,
		Height:       p.Height,
		Format:       string(p.Format),
		SizeBytes:    p.SizeBytes,
		Strategy:     string(p.Strategy),
		UsedFallback: p.UsedFallback,
		Upscaled:     p.Upscaled,
	}
}

// parseOutputFormat resolves the optional format argument, defaulting to PNG.
func parseOutputFormat(name string) (imaging.Format, error) {
	if name == "" {
		return imaging.FormatPNG, nil
	}
	return imaging.ParseFormat(name)
}

// === Core Pipeline Handlers ===

type imageProcessArgs struct {
	Image    string `json:"image"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Quality  int    `json:"quality"`
	Strategy string `json:"strategy"`
}

func (s *Server) handleImageProcess(args json.RawMessage) (interface{}, error) {
	var a imageProcessArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	data, err := decodeImagePayload(a.Image)
	if err != nil {
		return nil, err
	}
	format, err := parseOutputFormat(a.Format)
	if err != nil {
		return nil, err
	}
	strategy := pipeline.StrategyAuto
	if a.Strategy != "" {
		if strategy, err = pipeline.ParseStrategy(a.Strategy); err != nil {
			return nil, err
		}
	}

	result, err := s.proc.ProcessImage(context.Background(), data, pipeline.Options{
		TargetWidth:  a.Width,
		TargetHeight: a.Height,
		Format:       format,
		Quality:      a.Quality,
		Strategy:     strategy,
	})
	if err != nil {
		return nil, err
	}
	return toImageResult(result), nil
}

type imageDimensionsArgs struct {
	Image string `json:"image"`
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageDimensionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	data, err := decodeImagePayload(a.Image)
	if err != nil {
		return nil, err
	}
	return pipeline.GetDimensions(data)
}

type imageConvertArgs struct {
	Image   string `json:"image"`
	Format  string `json:"format"`
	Quality int    `json:"quality"`
}

func (s *Server) handleImageConvert(args json.RawMessage) (interface{}, error) {
	var a imageConvertArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	data, err := decodeImagePayload(a.Image)
	if err != nil {
		return nil, err
	}
	format, err := imaging.ParseFormat(a.Format)
	if err != nil {
		return nil, err
	}
	result, err := pipeline.Convert(data, format, a.Quality)
	if err != nil {
		return nil, err
	}
	return toImageResult(result), nil
}

// === Pixel Adjustment Handlers ===

type imageSharpenArgs struct {
	Image   string  `json:"image"`
	Amount  float64 `json:"amount"`
	Format  string  `json:"format"`
	Quality int     `json:"quality"`
}

func (s *Server) handleImageSharpen(args json.RawMessage) (interface{}, error) {
	var a imageSharpenArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Amount == 0 {
		a.Amount = 1.0
	}
	data, err := decodeImagePayload(a.Image)
	if err != nil {
		return nil, err
	}
	format, err := parseOutputFormat(a.Format)
	if err != nil {
		return nil, err
	}
	img, _, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}

	result, err := pipeline.EncodeImage(imaging.Sharpen(img, a.Amount), format, a.Quality)
	if err != nil {
		return nil, err
	}
	return toImageResult(result), nil
}

type imageFilterArgs struct {
	Image   string  `json:"image"`
	Filter  string  `json:"filter"`
	Amount  float64 `json:"amount"`
	Format  string  `json:"format"`
	Quality int     `json:"quality"`
}

func (s *Server) handleImageFilter(args json.RawMessage) (interface{}, error) {
	var a imageFilterArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	data, err := decodeImagePayload(a.Image)
	if err != nil {
		return nil, err
	}
	format, err := parseOutputFormat(a.Format)
	if err != nil {
		return nil, err
	}
	img, _, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}

	filtered, err := imaging.ApplyFilter(img, a.Filter, a.Amount)
	if err != nil {
		return nil, err
	}
	result, err := pipeline.EncodeImage(filtered, format, a.Quality)
	if err != nil {
		return nil, err
	}
	return toImageResult(result), nil
}

type imageRotateFlipArgs struct {
	Image          string `json:"image"`
	Rotate         int    `json:"rotate"`
	FlipHorizontal bool   `json:"flip_horizontal"`
	FlipVertical   bool   `json:"flip_vertical"`
	Format         string `json:"format"`
	Quality        int    `json:"quality"`
}

func (s *Server) handleImageRotateFlip(args json.RawMessage) (interface{}, error) {
	var a imageRotateFlipArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	data, err := decodeImagePayload(a.Image)
	if err != nil {
		return nil, err
	}
	format, err := parseOutputFormat(a.Format)
	if err != nil {
		return nil, err
	}
	img, _, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}

	rotated, err := imaging.RotateFlip(img, a.Rotate, a.FlipHorizontal, a.FlipVertical)
	if err != nil {
		return nil, err
	}
	result, err := pipeline.EncodeImage(rotated, format, a.Quality)
	if err != nil {
		return nil, err
	}
	return toImageResult(result), nil
}

// === Enhancement Handlers ===

type imageEnhanceAIArgs struct {
	Image       string `json:"image"`
	Instruction string `json:"instruction"`
	Format      string `json:"format"`
	Quality     int    `json:"quality"`
}

func (s *Server) handleImageEnhanceAI(args json.RawMessage) (interface{}, error) {
	var a imageEnhanceAIArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	data, err := decodeImagePayload(a.Image)
	if err != nil {
		return nil, err
	}
	format, err := parseOutputFormat(a.Format)
	if err != nil {
		return nil, err
	}

	result, err := s.proc.EnhanceWithAI(context.Background(), data, a.Instruction, format, a.Quality)
	if err != nil {
		return nil, err
	}
	return toImageResult(result), nil
}

type imageUpscaleArgs struct {
	Image   string `json:"image"`
	Format  string `json:"format"`
	Quality int    `json:"quality"`
}

func (s *Server) handleImageUpscale(args json.RawMessage) (interface{}, error) {
	var a imageUpscaleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	data, err := decodeImagePayload(a.Image)
	if err != nil {
		return nil, err
	}
	format, err := parseOutputFormat(a.Format)
	if err != nil {
		return nil, err
	}

	result, err := s.proc.AutoUpscale(data, format, a.Quality)
	if err != nil {
		return nil, err
	}
	return toImageResult(result), nil
}
