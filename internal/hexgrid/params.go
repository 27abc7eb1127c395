package hexgrid

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGrid is wrapped by every error that rejects grid parameters.
var ErrInvalidGrid = errors.New("invalid grid parameters")

// manualSpacingToHeight is the assumed ratio of vertical center spacing to hex
// height when the grid is sized by hand.
const manualSpacingToHeight = 0.75

// GridParams describes a hex grid laid over an image.
//
// GridParams is a value: the calculator produces one, and overrides produce a
// new one through WithOverrides. Nothing in this package mutates a GridParams
// after it is returned.
type GridParams struct {
	// HexWidth and HexHeight are the pixel size of one tile's bounding box.
	HexWidth  int `json:"hex_width"`
	HexHeight int `json:"hex_height"`

	Rows int `json:"rows"`
	Cols int `json:"cols"`

	// RowOffset is the horizontal shift applied to alternate rows.
	RowOffset float64 `json:"row_offset"`

	// StartX and StartY locate the center of cell (0, 0).
	StartX float64 `json:"start_x"`
	StartY float64 `json:"start_y"`

	// SpacingX and SpacingY are center-to-center distances.
	SpacingX float64 `json:"spacing_x"`
	SpacingY float64 `json:"spacing_y"`
}

// Validate checks rows >= 1, cols >= 1 and positive spacings.
func (p GridParams) Validate() error {
	switch {
	case p.Rows < 1:
		return fmt.Errorf("%w: rows must be >= 1, got %d", ErrInvalidGrid, p.Rows)
	case p.Cols < 1:
		return fmt.Errorf("%w: cols must be >= 1, got %d", ErrInvalidGrid, p.Cols)
	case !(p.SpacingX > 0):
		return fmt.Errorf("%w: spacing_x must be > 0, got %g", ErrInvalidGrid, p.SpacingX)
	case !(p.SpacingY > 0):
		return fmt.Errorf("%w: spacing_y must be > 0, got %g", ErrInvalidGrid, p.SpacingY)
	}
	return nil
}

// Positions is Rows * Cols, the grid size before bounds filtering. It
// saturates at math.MaxInt and is 0 for an empty grid.
func (p GridParams) Positions() int {
	if p.Rows <= 0 || p.Cols <= 0 {
		return 0
	}
	if p.Rows > math.MaxInt/p.Cols {
		return math.MaxInt
	}
	return p.Rows * p.Cols
}

// Overrides carries caller-supplied replacements for detected values.
// Nil fields are left alone.
type Overrides struct {
	Rows     *int
	Cols     *int
	SpacingY *float64
}

// IsEmpty reports whether no override is set.
func (o Overrides) IsEmpty() bool {
	return o.Rows == nil && o.Cols == nil && o.SpacingY == nil
}

// IsManual reports whether both rows and cols are set, which is enough to
// size the grid without detection.
func (o Overrides) IsManual() bool {
	return o.Rows != nil && o.Cols != nil
}

// WithOverrides returns a copy of p with the overrides applied and validated.
// Each applied override is reported to events.
func (p GridParams) WithOverrides(o Overrides, events EventSink) (GridParams, error) {
	events = orDiscard(events)
	next := p

	if o.Rows != nil {
		events.Emit(overrideEvent("rows", p.Rows, *o.Rows))
		next.Rows = *o.Rows
	}
	if o.Cols != nil {
		events.Emit(overrideEvent("cols", p.Cols, *o.Cols))
		next.Cols = *o.Cols
	}
	if o.SpacingY != nil {
		events.Emit(overrideEvent("spacing_y", p.SpacingY, *o.SpacingY))
		next.SpacingY = *o.SpacingY
	}

	if err := next.Validate(); err != nil {
		return GridParams{}, err
	}
	return next, nil
}

func overrideEvent(field string, from, to interface{}) Event {
	return Event{
		Kind:    EventOverrideApplied,
		Level:   LevelInfo,
		Message: "override applied",
		Fields: map[string]interface{}{
			"field": field,
			"from":  from,
			"to":    to,
		},
	}
}

// ManualGridParams sizes a grid from the image dimensions and a caller-chosen
// rows x cols, bypassing detection.
//
// Columns split the width evenly, so HexWidth = floor(width / cols) and the
// horizontal spacing equals HexWidth. The vertical spacing is spacingY when
// given, otherwise height / rows (the full height for a single row), and the
// hex height follows from spacing = 0.75 * height. Cell (0, 0) sits half a hex
// in from the top-left corner.
func ManualGridParams(width, height, rows, cols int, spacingY *float64) (GridParams, error) {
	if rows < 1 || cols < 1 {
		return GridParams{}, fmt.Errorf("%w: manual grid needs rows >= 1 and cols >= 1, got %dx%d",
			ErrInvalidGrid, rows, cols)
	}

	hexWidth := width / cols
	if hexWidth < 1 {
		return GridParams{}, fmt.Errorf("%w: %d columns do not fit in %d pixels", ErrInvalidGrid, cols, width)
	}

	var sy float64
	switch {
	case spacingY != nil:
		sy = *spacingY
	case rows > 1:
		sy = float64(height) / float64(rows)
	default:
		sy = float64(height)
	}
	hexHeight := int(math.Floor(sy / manualSpacingToHeight))
	if spacingY == nil && hexHeight < 1 {
		return GridParams{}, fmt.Errorf("%w: %d rows do not fit in %d pixels", ErrInvalidGrid, rows, height)
	}

	p := GridParams{
		HexWidth:  hexWidth,
		HexHeight: hexHeight,
		Rows:      rows,
		Cols:      cols,
		RowOffset: float64(hexWidth) / 2,
		StartX:    float64(hexWidth) / 2,
		StartY:    float64(hexHeight) / 2,
		SpacingX:  float64(hexWidth),
		SpacingY:  sy,
	}
	if err := p.Validate(); err != nil {
		return GridParams{}, err
	}
	return p, nil
}
