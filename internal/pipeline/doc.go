// Package pipeline orchestrates image processing requests.
//
// A request moves through a fixed sequence of stages: input-kind detection
// (vector markup vs raster bytes), optional one-way rasterization, canvas
// expansion by the selected strategy, an exact aspect-ratio crop, format
// encoding, and a best-effort auto-upscale. Vector inputs whose output must
// stay vector bypass the raster stages entirely and are handled by the
// vector-native path.
//
// # Expansion Before Cropping
//
// The expansion target is 1.5x the original's linear dimensions, decoupling
// "how much to extend" from "what aspect ratio to end at". Extending
// straight to the target aspect ratio would distort the fill when the
// target ratio differs greatly from the original; expanding generously and
// cropping afterwards does not.
//
// # Strategy and Fallback
//
// Two extension strategies exist: AI (generative fill) and deterministic
// (edge-color canvas extension). The AI strategy falls back to the
// deterministic one on any failure, including the service returning the
// input unchanged; the caller sees UsedFallback=true and a successful
// result, never the generative error. Stages without a fallback (decode,
// vector parse) fail the request with a ProcessingError naming the stage.
//
// # Concurrency
//
// One request is one sequential pipeline; each stage consumes the previous
// stage's output and nothing is shared across requests. Cancellation is
// checked between stages and around the network-bound generative call, the
// only high-latency step.
package pipeline
