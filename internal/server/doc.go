// Package server implements the MCP (Model Context Protocol) server for image editing tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the canvas
// transformation pipeline through the MCP protocol. It's designed to work
// with Claude and other MCP-compatible clients, letting AI systems resize,
// reformat, and enhance images for publishing targets.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Core pipeline:
//   - image_process: Extend, crop to aspect ratio, encode, auto-upscale
//   - image_dimensions: Get width, height, and format
//   - image_convert: Re-encode into another format
//
// Pixel adjustments:
//   - image_sharpen: Unsharp-mask sharpening
//   - image_filter: Named filters (grayscale, sepia, blur, ...)
//   - image_rotate_flip: 90-degree rotation and mirroring
//
// Generative and heuristic enhancement:
//   - image_enhance_ai: AI enhancement with deterministic fallback
//   - image_upscale: Byte-floor upscale heuristic
//
// # Image Transport
//
// Images travel inline as base64 strings in both directions. There is no
// filesystem access: the caller owns the bytes, which keeps the server
// usable for browser-originated content and for sandboxed MCP clients.
// A data-URI prefix on input is tolerated and stripped.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New(proc)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
