// Package palette implements reference color palettes and nearest-color search.
//
// # Matching
//
// Nearest performs a linear scan using plain Euclidean distance over the R, G,
// B and A channels. No perceptual weighting or color-space conversion is
// applied. Alpha is compared like any other channel.
//
// # Ties
//
// When several palette colors are exactly as close to the query, the one that
// was inserted first wins. Results therefore depend on insertion order, and
// are reproducible across runs.
//
// # Hex Colors
//
// ParseHex accepts "#RRGGBB" (alpha 255) and "#RRGGBBAA". Other lengths are
// rejected with ErrHexFormat.
package palette
