// Package tiles cuts individual hex tiles out of a map image.
//
// For every enumerated cell the Extractor takes a square window around the
// cell center, sized from the hex bounding box plus a margin and clamped to
// the image, and replaces the window's alpha channel with a hexagon mask so
// that everything outside the tile is transparent.
//
// # Identifiers
//
// Each tile is named by its grid position as "RR_CC" with two-digit,
// zero-padded row and column. Identifiers are unique within one grid, so
// concurrent writers never collide on a file name.
//
// # Concurrency
//
// Extract and ExtractTo process cells on a bounded errgroup. Results keep
// the order of the input cells regardless of completion order. The first
// error cancels outstanding work.
package tiles
