// Package imaging handles the image side of pattern generation: decoding
// source photos, reducing them to a stitch grid, and rendering charts.
//
// # Pipeline
//
// A source image is decoded (PNG, JPEG, GIF or WebP) through ImageCache,
// softened with a Gaussian blur and resampled with a Lanczos filter to the
// pattern size by Preprocess. Color matching happens elsewhere; this package
// only prepares the pixels and renders the result.
//
// # Coordinate System
//
// Images returned by this package have their origin at (0,0). One output
// pixel of Preprocess is one stitch.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The other functions are
// stateless and never modify their input images.
//
// # Charts
//
// RenderChart enlarges each stitch to a square cell and overlays the stitch
// grid, with a heavier line every ten stitches by default.
package imaging
