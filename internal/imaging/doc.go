// Package imaging provides the raster processing operations for the image
// editing server.
//
// This package implements the codec layer (decode, encode, format detection)
// and the deterministic pixel operations the processing pipeline is built
// from: edge-color sampling, canvas extension, cover-cropping, aspect-ratio
// cropping, filters, and the auto-upscale heuristic. All operations work with
// standard Go image.Image types and use a coordinate system where (0,0) is at
// the top-left corner, X increases rightward, and Y increases downward.
//
// # Codec Concurrency
//
// Decode and encode hold a shared codec slot for their duration. The slot
// capacity defaults to 1, so only one image moves through the codec at a
// time; large images allocate pixel buffers proportional to their area, and
// serializing the codec bounds peak memory. Call Configure at process start
// to raise the cap when throughput matters more than memory.
//
// # Color Representation
//
// Sampled colors are 8-bit RGB (0-255). EdgeColor values convert to
// color.NRGBA for compositing and to hex strings ("#rrggbb") for reporting.
//
// # Error Handling
//
// Functions return errors for undecodable input (wrapping
// ErrUnsupportedFormat where the format is unrecognized), unsupported output
// encodings, and invalid geometry such as non-positive target dimensions.
// Operations that exist as best-effort heuristics (AutoUpscale) report their
// failure but always hand back usable output.
package imaging
