package hexgrid

import (
	"fmt"
	"math"
	"strings"
)

// OffsetMode selects which rows are shifted right by GridParams.RowOffset.
type OffsetMode int

const (
	// OffsetStandard shifts odd rows.
	OffsetStandard OffsetMode = iota
	// OffsetInverted shifts even rows.
	OffsetInverted
)

// OffsetModeFor maps an "invert offset" flag to a mode.
func OffsetModeFor(invert bool) OffsetMode {
	if invert {
		return OffsetInverted
	}
	return OffsetStandard
}

func (m OffsetMode) String() string {
	switch m {
	case OffsetStandard:
		return "standard"
	case OffsetInverted:
		return "inverted"
	default:
		return fmt.Sprintf("offset(%d)", int(m))
	}
}

// ParseOffsetMode accepts "standard" or "inverted" in any case.
func ParseOffsetMode(s string) (OffsetMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard", "":
		return OffsetStandard, nil
	case "inverted":
		return OffsetInverted, nil
	}
	return OffsetStandard, fmt.Errorf("unknown offset mode %q (want standard or inverted)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m OffsetMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *OffsetMode) UnmarshalText(text []byte) error {
	parsed, err := ParseOffsetMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m OffsetMode) shifts(row int) bool {
	if m == OffsetInverted {
		return row%2 == 0
	}
	return row%2 == 1
}

// HexCell is one occupied grid position.
//
// TileID and Confidence belong to whatever classifies the extracted tiles;
// enumeration leaves them zero.
type HexCell struct {
	Row     int     `json:"row"`
	Col     int     `json:"col"`
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`

	TileID     int     `json:"tile_id"`
	Confidence float64 `json:"confidence"`
}

// ID is the zero-padded "RR_CC" name used for the cell's tile file.
func (c HexCell) ID() string {
	return CellID(c.Row, c.Col)
}

// CellID formats a grid position as "RR_CC".
func CellID(row, col int) string {
	return fmt.Sprintf("%02d_%02d", row, col)
}

// CellEnumerator expands GridParams into the cells that land inside an image.
type CellEnumerator struct {
	Events EventSink
}

// Enumerate returns the cells of p whose centers fall inside a width x height
// image, in row-major order. Positions outside the image are dropped.
func (e CellEnumerator) Enumerate(p GridParams, width, height int, mode OffsetMode) []HexCell {
	w, h := float64(width), float64(height)

	// Only rows and columns whose centers can reach the image are walked,
	// so a huge rows x cols costs no more than the image holds.
	rowLo, rowHi := indexRange(p.Rows, p.StartY, p.SpacingY, h, 0, 0)
	colLo, colHi := indexRange(p.Cols, p.StartX, p.SpacingX, w, min(p.RowOffset, 0), max(p.RowOffset, 0))
	cells := make([]HexCell, 0, spanCapacity(rowHi-rowLo, colHi-colLo))

	for row := rowLo; row < rowHi; row++ {
		y := p.StartY + float64(row)*p.SpacingY
		for col := colLo; col < colHi; col++ {
			x := p.StartX + float64(col)*p.SpacingX
			if mode.shifts(row) {
				x += p.RowOffset
			}
			if x < 0 || x >= w || y < 0 || y >= h {
				continue
			}
			cells = append(cells, HexCell{Row: row, Col: col, CenterX: x, CenterY: y})
		}
	}

	orDiscard(e.Events).Emit(Event{
		Kind:    EventCellsEnumerated,
		Level:   LevelInfo,
		Message: "hex cells enumerated",
		Fields: map[string]interface{}{
			"cells":     len(cells),
			"positions": p.Positions(),
			"dropped":   p.Positions() - len(cells),
			"mode":      mode.String(),
		},
	})
	return cells
}

const maxCellPrealloc = 4096

// indexRange returns the half-open range of indexes in [0, n) whose positions
// start + i*step + shift can fall inside [0, limit) for some shift in
// [minShift, maxShift]. A non-positive step leaves the range unbounded.
func indexRange(n int, start, step, limit, minShift, maxShift float64) (int, int) {
	if n <= 0 {
		return 0, 0
	}
	if !(step > 0) {
		return 0, n
	}
	lo := math.Floor((-start - maxShift) / step)
	hi := math.Ceil((limit-start-minShift)/step) + 1
	return clampIndex(lo, n), clampIndex(hi, n)
}

func clampIndex(v float64, n int) int {
	switch {
	case !(v > 0):
		return 0
	case v >= float64(n):
		return n
	}
	return int(v)
}

func spanCapacity(rows, cols int) int {
	if rows <= 0 || cols <= 0 {
		return 0
	}
	if rows > maxCellPrealloc/cols {
		return maxCellPrealloc
	}
	return rows * cols
}

// EnumerateCells is Enumerate without event reporting.
func EnumerateCells(p GridParams, width, height int, mode OffsetMode) []HexCell {
	return CellEnumerator{}.Enumerate(p, width, height, mode)
}
