// Package vector implements the vector-native processing path.
//
// Vector inputs whose output must remain vector are never rasterized.
// Instead this package manipulates the markup's coordinate system directly:
// resizing rewrites the root element's width, height and viewBox while
// leaving child geometry byte-for-byte untouched, and extension synthesizes
// a new root containing a background rectangle plus the original content in
// a translated group.
//
// # Parsing Model
//
// The package deliberately avoids a full XML round trip. An XML
// parse-and-reserialize cannot guarantee the inner content survives
// unchanged (attribute ordering, entity expansion, self-closing forms), and
// unchanged inner content is a hard requirement of the resize operation.
// Only the root <svg> tag is located and rewritten; everything between it
// and the matching close tag passes through verbatim.
//
// # Color Detection
//
// Extension needs a background color but markup has no pixels to sample.
// The heuristic stand-in prefers an explicit full-canvas rectangle's fill,
// then the first fill encountered in the content, then white.
//
// # Capabilities
//
// Rasterize converts markup to pixels for the raster pipeline (a one-way
// conversion), Optimize minifies markup without touching viewBox or id
// attributes, and WrapRaster packages encoded raster bytes inside a minimal
// SVG container.
package vector
