package hexgrid

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestManualGridParams(t *testing.T) {
	p, err := ManualGridParams(448, 448, 7, 7, nil)
	if err != nil {
		t.Fatalf("ManualGridParams failed: %v", err)
	}

	want := GridParams{
		HexWidth:  64,
		HexHeight: 85,
		Rows:      7,
		Cols:      7,
		RowOffset: 32,
		StartX:    32,
		StartY:    42.5,
		SpacingX:  64,
		SpacingY:  64,
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestManualGridParams_SpacingOverride(t *testing.T) {
	p, err := ManualGridParams(448, 448, 7, 7, floatPtr(60))
	if err != nil {
		t.Fatalf("ManualGridParams failed: %v", err)
	}
	if p.SpacingY != 60 {
		t.Errorf("SpacingY: got %v, want 60", p.SpacingY)
	}
	if p.HexHeight != 80 {
		t.Errorf("HexHeight: got %d, want 80", p.HexHeight)
	}
}

func TestManualGridParams_SingleRow(t *testing.T) {
	p, err := ManualGridParams(300, 90, 1, 3, nil)
	if err != nil {
		t.Fatalf("ManualGridParams failed: %v", err)
	}
	if p.SpacingY != 90 {
		t.Errorf("SpacingY: got %v, want 90", p.SpacingY)
	}
	if p.HexHeight != 120 {
		t.Errorf("HexHeight: got %d, want 120", p.HexHeight)
	}
}

func TestManualGridParams_Invalid(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		rows, cols    int
		spacingY      *float64
	}{
		{"zero rows", 100, 100, 0, 3, nil},
		{"zero cols", 100, 100, 3, 0, nil},
		{"too many cols", 10, 100, 3, 20, nil},
		{"non-positive spacing", 100, 100, 3, 3, floatPtr(0)},
		{"too many rows", 448, 448, 1 << 40, 7, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ManualGridParams(tt.width, tt.height, tt.rows, tt.cols, tt.spacingY)
			if !errors.Is(err, ErrInvalidGrid) {
				t.Errorf("error: got %v, want ErrInvalidGrid", err)
			}
		})
	}
}

func TestGridParams_Validate(t *testing.T) {
	valid := GridParams{Rows: 2, Cols: 3, SpacingX: 10, SpacingY: 10}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid params rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*GridParams)
	}{
		{"rows", func(p *GridParams) { p.Rows = 0 }},
		{"cols", func(p *GridParams) { p.Cols = -1 }},
		{"spacing_x", func(p *GridParams) { p.SpacingX = 0 }},
		{"spacing_y", func(p *GridParams) { p.SpacingY = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			if err := p.Validate(); !errors.Is(err, ErrInvalidGrid) {
				t.Errorf("error: got %v, want ErrInvalidGrid", err)
			}
		})
	}
}

func TestWithOverrides(t *testing.T) {
	base := GridParams{HexWidth: 40, HexHeight: 35, Rows: 5, Cols: 6, SpacingX: 40, SpacingY: 30}
	rec := &Recorder{}

	next, err := base.WithOverrides(Overrides{Rows: intPtr(8), SpacingY: floatPtr(26)}, rec)
	if err != nil {
		t.Fatalf("WithOverrides failed: %v", err)
	}

	if next.Rows != 8 || next.Cols != 6 || next.SpacingY != 26 {
		t.Errorf("overridden: got rows=%d cols=%d spacing_y=%v, want 8, 6, 26", next.Rows, next.Cols, next.SpacingY)
	}
	if base.Rows != 5 || base.SpacingY != 30 {
		t.Error("WithOverrides must not modify the receiver")
	}
	if n := rec.Count(EventOverrideApplied); n != 2 {
		t.Errorf("override events: got %d, want 2", n)
	}
}

func TestWithOverrides_Invalid(t *testing.T) {
	base := GridParams{Rows: 5, Cols: 6, SpacingX: 40, SpacingY: 30}

	_, err := base.WithOverrides(Overrides{Cols: intPtr(0)}, nil)
	if !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("error: got %v, want ErrInvalidGrid", err)
	}
}

func TestOverrides_Modes(t *testing.T) {
	tests := []struct {
		name   string
		o      Overrides
		empty  bool
		manual bool
	}{
		{"none", Overrides{}, true, false},
		{"rows only", Overrides{Rows: intPtr(3)}, false, false},
		{"rows and cols", Overrides{Rows: intPtr(3), Cols: intPtr(4)}, false, true},
		{"spacing only", Overrides{SpacingY: floatPtr(10)}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.o.IsEmpty(); got != tt.empty {
				t.Errorf("IsEmpty: got %v, want %v", got, tt.empty)
			}
			if got := tt.o.IsManual(); got != tt.manual {
				t.Errorf("IsManual: got %v, want %v", got, tt.manual)
			}
		})
	}
}
