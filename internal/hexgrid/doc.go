// Package hexgrid recovers the layout of a hexagonal tile grid from a binary
// edge mask.
//
// The package works in three stages, each usable on its own:
//
//  1. Boundary projection: for every column the first edge pixel seen from the
//     top and from the bottom, for every row the first edge pixel seen from the
//     left and from the right. The extremes of these four profiles give the
//     outer bounding box of the map.
//  2. Spacing estimation: each profile is a periodic zigzag when the map edge
//     follows hex tiles, so its pitch is the tile spacing along that axis.
//  3. Grid calculation: the box and the four spacings are reconciled against
//     an expected tile count into a single GridParams value.
//
// GridParams then expands into HexCell centers with EnumerateCells.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with the origin at the top-left corner of the
// mask. X increases rightward, Y increases downward. Cell centers are floating
// point; a cell is kept only when 0 <= x < width and 0 <= y < height.
//
// # Row Offsets
//
// Hex rows interlock by shifting alternate rows by GridParams.RowOffset:
//   - OffsetStandard: odd rows (1, 3, 5, ...) are shifted
//   - OffsetInverted: even rows (0, 2, 4, ...) are shifted
//
// # Fallbacks
//
// Detection never guesses silently. When every directional spacing is noise
// the side length falls back to FallbackHexSideLength; when the side length is
// at or below WeakSignalThreshold the calculator ignores spacing entirely and
// sizes a square grid from the expected tile count; when the detected grid is
// more than twice the expected tile count it is shrunk. Each of these emits an
// Event so callers can tell which path produced the result.
//
// # Events
//
// Components never print. They emit Event values into an EventSink, which
// defaults to Discard. Use LogSink for human output and Recorder in tests.
//
// # Thread Safety
//
// All functions are deterministic and hold no shared state. Analyzer,
// SpacingEstimator, Calculator and CellEnumerator may be shared across
// goroutines as long as their EventSink is safe for concurrent use.
package hexgrid
