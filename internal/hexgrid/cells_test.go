package hexgrid

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEnumerateCells_RowOffsets(t *testing.T) {
	p := GridParams{Rows: 4, Cols: 1, StartX: 0, StartY: 0, SpacingX: 10, SpacingY: 10, RowOffset: 5}

	tests := []struct {
		mode  OffsetMode
		wantX []float64
	}{
		{OffsetStandard, []float64{0, 5, 0, 5}},
		{OffsetInverted, []float64{5, 0, 5, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			cells := EnumerateCells(p, 100, 100, tt.mode)
			if len(cells) != 4 {
				t.Fatalf("cells: got %d, want 4", len(cells))
			}
			for i, c := range cells {
				if c.Row != i || c.Col != 0 {
					t.Errorf("cell %d: got (%d,%d), want (%d,0)", i, c.Row, c.Col, i)
				}
				if c.CenterX != tt.wantX[i] {
					t.Errorf("row %d x: got %v, want %v", i, c.CenterX, tt.wantX[i])
				}
				if c.CenterY != float64(10*i) {
					t.Errorf("row %d y: got %v, want %v", i, c.CenterY, float64(10*i))
				}
			}
		})
	}
}

func TestEnumerateCells_ManualGrid(t *testing.T) {
	p, err := ManualGridParams(448, 448, 7, 7, nil)
	if err != nil {
		t.Fatalf("ManualGridParams failed: %v", err)
	}

	cells := EnumerateCells(p, 448, 448, OffsetStandard)

	// Odd rows shift by 32, pushing column 6 to x=448.
	if len(cells) != 46 {
		t.Errorf("cells: got %d, want 46", len(cells))
	}
	for _, c := range cells {
		if c.Row%2 == 1 && c.Col == 6 {
			t.Errorf("cell (%d,%d) at x=%v should be out of bounds", c.Row, c.Col, c.CenterX)
		}
	}

	inverted := EnumerateCells(p, 448, 448, OffsetInverted)
	if len(inverted) != 45 {
		t.Errorf("inverted cells: got %d, want 45", len(inverted))
	}
}

func TestEnumerateCells_BoundsFilter(t *testing.T) {
	p := GridParams{Rows: 6, Cols: 6, StartX: -15, StartY: -5, SpacingX: 20, SpacingY: 20, RowOffset: 10}
	const w, h = 70, 55

	cells := EnumerateCells(p, w, h, OffsetStandard)

	if len(cells) == 0 {
		t.Fatal("expected some cells in bounds")
	}
	for _, c := range cells {
		if c.CenterX < 0 || c.CenterX >= w || c.CenterY < 0 || c.CenterY >= h {
			t.Errorf("cell (%d,%d) at (%v,%v) outside %dx%d", c.Row, c.Col, c.CenterX, c.CenterY, w, h)
		}
	}
	if len(cells) >= p.Positions() {
		t.Errorf("cells: got %d, want fewer than %d", len(cells), p.Positions())
	}
}

func TestEnumerateCells_HugeGrid(t *testing.T) {
	p := GridParams{
		Rows: math.MaxInt32, Cols: math.MaxInt32,
		StartX: 5, StartY: 5, SpacingX: 10, SpacingY: 10, RowOffset: 5,
	}

	cells := EnumerateCells(p, 100, 100, OffsetStandard)

	// Ten rows fit; even rows hold x=5..95 and shifted odd rows x=10..90.
	if len(cells) != 95 {
		t.Fatalf("cells: got %d, want 95", len(cells))
	}
	last := cells[len(cells)-1]
	if last.Row != 9 || last.Col != 8 || last.CenterX != 90 || last.CenterY != 95 {
		t.Errorf("last cell: got %+v, want row 9 col 8 at (90,95)", last)
	}
}

func TestEnumerateCells_StartOutsideImage(t *testing.T) {
	p := GridParams{Rows: 50, Cols: 50, StartX: -95, StartY: -95, SpacingX: 10, SpacingY: 10, RowOffset: -5}

	cells := EnumerateCells(p, 20, 20, OffsetInverted)

	// Rows 10 and 11 land at y=5 and y=15. Row 10 is shifted left by 5.
	want := []HexCell{
		{Row: 10, Col: 10, CenterX: 0, CenterY: 5},
		{Row: 10, Col: 11, CenterX: 10, CenterY: 5},
		{Row: 11, Col: 10, CenterX: 5, CenterY: 15},
		{Row: 11, Col: 11, CenterX: 15, CenterY: 15},
	}
	if diff := cmp.Diff(want, cells); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}
}

func TestGridParams_PositionsSaturates(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
		want       int
	}{
		{"small", 3, 4, 12},
		{"empty", 0, 4, 0},
		{"overflow", math.MaxInt, 2, math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GridParams{Rows: tt.rows, Cols: tt.cols}.Positions()
			if got != tt.want {
				t.Errorf("Positions: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEnumerateCells_RowMajorAndDefaults(t *testing.T) {
	p := GridParams{Rows: 2, Cols: 2, StartX: 5, StartY: 5, SpacingX: 10, SpacingY: 10, RowOffset: 5}

	got := EnumerateCells(p, 100, 100, OffsetStandard)

	want := []HexCell{
		{Row: 0, Col: 0, CenterX: 5, CenterY: 5},
		{Row: 0, Col: 1, CenterX: 15, CenterY: 5},
		{Row: 1, Col: 0, CenterX: 10, CenterY: 15},
		{Row: 1, Col: 1, CenterX: 20, CenterY: 15},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}
}

func TestCellEnumerator_Event(t *testing.T) {
	rec := &Recorder{}
	p := GridParams{Rows: 2, Cols: 2, StartX: 5, StartY: 5, SpacingX: 50, SpacingY: 50, RowOffset: 25}

	cells := CellEnumerator{Events: rec}.Enumerate(p, 60, 60, OffsetStandard)

	events := rec.Events()
	if len(events) != 1 || events[0].Kind != EventCellsEnumerated {
		t.Fatalf("events: got %v, want one cells_enumerated", events)
	}
	if got := events[0].Fields["dropped"]; got != 4-len(cells) {
		t.Errorf("dropped: got %v, want %d", got, 4-len(cells))
	}
}

func TestHexCell_ID(t *testing.T) {
	tests := []struct {
		row, col int
		want     string
	}{
		{0, 0, "00_00"},
		{3, 12, "03_12"},
		{10, 7, "10_07"},
	}
	for _, tt := range tests {
		c := HexCell{Row: tt.row, Col: tt.col}
		if got := c.ID(); got != tt.want {
			t.Errorf("ID(%d,%d): got %q, want %q", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestParseOffsetMode(t *testing.T) {
	tests := []struct {
		in      string
		want    OffsetMode
		wantErr bool
	}{
		{"standard", OffsetStandard, false},
		{"Inverted", OffsetInverted, false},
		{"", OffsetStandard, false},
		{"sideways", OffsetStandard, true},
	}
	for _, tt := range tests {
		got, err := ParseOffsetMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOffsetMode(%q) error: got %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOffsetMode(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}

	if OffsetModeFor(true) != OffsetInverted || OffsetModeFor(false) != OffsetStandard {
		t.Error("OffsetModeFor maps the invert flag incorrectly")
	}
}

func TestOffsetMode_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Mode OffsetMode `json:"mode"`
	}{OffsetInverted})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"mode":"inverted"}` {
		t.Errorf("json: got %s", data)
	}
}
