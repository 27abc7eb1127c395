package hexgrid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	// SpacingValidityThreshold: directional spacings at or below this many
	// pixels are treated as noise when aggregating the side length.
	SpacingValidityThreshold = 10

	// WeakSignalThreshold: a side length at or below this many pixels sends
	// the calculator down the geometry-only fallback path.
	WeakSignalThreshold = 10

	// FallbackHexSideLength is used when no directional spacing is valid.
	FallbackHexSideLength = 60

	// DefaultExpectedTiles is the tile-count hint used when none is given.
	DefaultExpectedTiles = 34
)

// Empirical constants of the three sizing paths.
const (
	oversizeFactor       = 2
	reconcileAreaFactor  = 1.5
	reconcileMinSide     = 5
	reconcileWidthRatio  = 1.33
	reconcileHeightRatio = 1.15
	fallbackAreaFactor   = 1.4

	// Spacing multiples of the side length used when both directions of
	// an axis abstained.
	abstainedSpacingXFactor = 1.5
	abstainedSpacingYFactor = 1.3
)

// Boundaries is the outer box of a map together with the per-direction
// pattern spacings measured on its edge.
type Boundaries struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
	Right  int `json:"right"`
	Width  int `json:"width"`
	Height int `json:"height"`

	// HexSideLength seeds the calculator; see AggregateSideLength.
	HexSideLength int `json:"hex_side_length"`

	PatternSpacings map[Direction]int `json:"pattern_spacings"`
}

// NewBoundaries combines a box with its measured spacings.
func NewBoundaries(box Box, spacings map[Direction]int) Boundaries {
	return Boundaries{
		Top:             box.Top,
		Bottom:          box.Bottom,
		Left:            box.Left,
		Right:           box.Right,
		Width:           box.Width(),
		Height:          box.Height(),
		HexSideLength:   AggregateSideLength(spacings),
		PatternSpacings: spacings,
	}
}

// AggregateSideLength is the median of the spacings above
// SpacingValidityThreshold, truncated to whole pixels, or
// FallbackHexSideLength when none qualifies.
func AggregateSideLength(spacings map[Direction]int) int {
	var valid []float64
	for _, d := range Directions {
		if s := spacings[d]; s > SpacingValidityThreshold {
			valid = append(valid, float64(s))
		}
	}
	if len(valid) == 0 {
		return FallbackHexSideLength
	}
	return int(median(valid))
}

// Calculator turns Boundaries into GridParams.
type Calculator struct {
	events EventSink
}

// NewCalculator returns a calculator reporting to events (nil discards).
func NewCalculator(events EventSink) *Calculator {
	return &Calculator{events: orDiscard(events)}
}

// Calculate sizes the grid for b.
//
// A side length above WeakSignalThreshold takes the detected path: hex size
// from the side length, spacings from the directional pitches and rows/cols
// from how many pitches fit the box. If that yields more than twice the
// expected tile count the grid is shrunk to a square sized from the hint.
// Otherwise the detected spacings are ignored and a square grid is sized
// from the hint alone.
func (c *Calculator) Calculate(b Boundaries, expectedTiles int) (GridParams, error) {
	if expectedTiles < 1 {
		return GridParams{}, fmt.Errorf("%w: expected tile count must be >= 1, got %d", ErrInvalidGrid, expectedTiles)
	}

	var p GridParams
	if b.HexSideLength <= WeakSignalThreshold {
		c.events.Emit(Event{
			Kind:    EventWeakSignalFallback,
			Level:   LevelWarn,
			Message: "hex side length detection failed, using geometric fallback",
			Fields:  map[string]interface{}{"hex_side_length": b.HexSideLength},
		})
		p = c.fallback(b, expectedTiles)
	} else {
		p = c.detected(b, expectedTiles)
	}

	if err := p.Validate(); err != nil {
		return GridParams{}, err
	}

	c.events.Emit(Event{
		Kind:    EventGridCalculated,
		Level:   LevelInfo,
		Message: "grid calculated",
		Fields: map[string]interface{}{
			"rows":      p.Rows,
			"cols":      p.Cols,
			"hex_size":  fmt.Sprintf("%dx%d", p.HexWidth, p.HexHeight),
			"spacing":   fmt.Sprintf("%.1fx%.1f", p.SpacingX, p.SpacingY),
			"positions": p.Positions(),
		},
	})
	return p, nil
}

func (c *Calculator) detected(b Boundaries, expectedTiles int) GridParams {
	side := b.HexSideLength
	w, h := boxExtent(b)

	hexWidth := 2 * side
	hexHeight := round(math.Sqrt(3) * float64(side))

	spacingX := stat.Mean([]float64{
		spacingOr(b.PatternSpacings, FromTop, side),
		spacingOr(b.PatternSpacings, FromBottom, side),
	}, nil)
	if !(spacingX > 0) {
		spacingX = abstainedSpacingXFactor * float64(side)
	}
	spacingY := stat.Mean([]float64{
		spacingOr(b.PatternSpacings, FromLeft, side),
		spacingOr(b.PatternSpacings, FromRight, side),
	}, nil)
	if !(spacingY > 0) {
		spacingY = abstainedSpacingYFactor * float64(side)
	}

	cols := int(math.Floor(w/spacingX)) + 1
	rows := int(math.Floor(h/spacingY)) + 1

	if rows*cols > oversizeFactor*expectedTiles {
		n := max(reconcileMinSide, int(math.Floor(math.Sqrt(reconcileAreaFactor*float64(expectedTiles)))))
		c.events.Emit(Event{
			Kind:    EventOversizedGridCorrection,
			Level:   LevelInfo,
			Message: "detected grid too large for expected tile count, shrinking",
			Fields: map[string]interface{}{
				"detected":       fmt.Sprintf("%dx%d", rows, cols),
				"corrected":      fmt.Sprintf("%dx%d", n, n),
				"expected_tiles": expectedTiles,
			},
		})
		rows, cols = n, n
		spacingX = w / float64(cols)
		spacingY = h / float64(rows)
		hexWidth = round(reconcileWidthRatio * spacingX)
		hexHeight = round(reconcileHeightRatio * spacingY)
	}

	return anchored(b, GridParams{
		HexWidth:  hexWidth,
		HexHeight: hexHeight,
		Rows:      rows,
		Cols:      cols,
		SpacingX:  spacingX,
		SpacingY:  spacingY,
	})
}

func (c *Calculator) fallback(b Boundaries, expectedTiles int) GridParams {
	w, h := boxExtent(b)
	n := max(1, int(math.Floor(math.Sqrt(fallbackAreaFactor*float64(expectedTiles)))))

	spacingX := w / float64(n)
	spacingY := h / float64(n)

	return anchored(b, GridParams{
		HexWidth:  int(math.Floor(spacingX)),
		HexHeight: int(math.Floor(spacingY)),
		Rows:      n,
		Cols:      n,
		SpacingX:  spacingX,
		SpacingY:  spacingY,
	})
}

// anchored fills in the start position and row offset shared by both
// detection paths.
func anchored(b Boundaries, p GridParams) GridParams {
	p.StartX = float64(b.Left) + float64(p.HexWidth)/2
	p.StartY = float64(b.Top) + float64(p.HexHeight)/2
	p.RowOffset = p.SpacingX / 2
	return p
}

// boxExtent measures a collapsed box as one pixel so spacings stay positive.
func boxExtent(b Boundaries) (float64, float64) {
	return float64(max(b.Width, 1)), float64(max(b.Height, 1))
}

// spacingOr substitutes the side length for a direction that was never
// measured. An abstained direction is present as 0 and counts toward the
// mean.
func spacingOr(spacings map[Direction]int, d Direction, side int) float64 {
	if s, ok := spacings[d]; ok {
		return float64(max(s, 0))
	}
	return float64(side)
}

func round(v float64) int {
	return int(math.Round(v))
}
