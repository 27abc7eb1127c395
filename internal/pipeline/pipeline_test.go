package pipeline

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/hexmap-tools/internal/config"
	"github.com/ironsheep/hexmap-tools/internal/debugviz"
	"github.com/ironsheep/hexmap-tools/internal/hexgrid"
	"github.com/ironsheep/hexmap-tools/internal/imaging"
	"github.com/ironsheep/hexmap-tools/internal/tiles"
)

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", name, err)
	}
	return path
}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// zigzagMask draws y = 20 + |x mod 40 - 20| across a 200x120 mask.
func zigzagMask() *image.Gray {
	return zigzagMaskOf(255)
}

// zigzagMaskOf draws the zigzag with the given edge value.
func zigzagMaskOf(v uint8) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, 200, 120))
	for x := 0; x < 200; x++ {
		d := x%40 - 20
		if d < 0 {
			d = -d
		}
		g.SetGray(x, 20+d, color.Gray{Y: v})
	}
	return g
}

func baseRequest(t *testing.T, imagePath string) Request {
	req := RequestFromConfig(config.DefaultConfig(), imagePath, "")
	req.OutputDir = filepath.Join(t.TempDir(), "tiles")
	req.DebugDir = filepath.Join(t.TempDir(), "debug")
	req.Workers = 4
	return req
}

func intPtr(v int) *int { return &v }

func TestSplit_ManualMode(t *testing.T) {
	dir := t.TempDir()
	imagePath := writePNG(t, dir, "map.png", solid(448, 448, color.RGBA{90, 160, 60, 255}))

	req := baseRequest(t, imagePath)
	req.Overrides = hexgrid.Overrides{Rows: intPtr(7), Cols: intPtr(7)}

	res, err := NewRunner(nil, nil).Split(context.Background(), req)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	if !res.Manual {
		t.Error("Manual: got false, want true")
	}
	if res.Analysis != nil {
		t.Error("manual mode should not run analysis")
	}
	if len(res.Cells) != 46 {
		t.Errorf("cells: got %d, want 46", len(res.Cells))
	}
	if len(res.Files) != 46 {
		t.Errorf("files: got %d, want 46", len(res.Files))
	}
	if _, err := os.Stat(filepath.Join(req.OutputDir, "06_05.png")); err != nil {
		t.Errorf("last tile: %v", err)
	}

	m, err := tiles.ReadManifest(res.Manifest)
	if err != nil {
		t.Fatalf("ReadManifest failed: %v", err)
	}
	if len(m.Tiles) != 46 || !m.Manual || m.Params.Rows != 7 {
		t.Errorf("manifest: got %d tiles, manual=%v, rows=%d", len(m.Tiles), m.Manual, m.Params.Rows)
	}
}

func TestSplit_AutoModeWithMaskFile(t *testing.T) {
	dir := t.TempDir()
	imagePath := writePNG(t, dir, "map.png", solid(200, 120, color.RGBA{200, 200, 200, 255}))
	maskPath := writePNG(t, dir, "edges.png", zigzagMask())

	req := baseRequest(t, imagePath)
	req.MaskPath = maskPath
	rec := &hexgrid.Recorder{}

	res, err := NewRunner(imaging.NewImageCache(4), rec).Split(context.Background(), req)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	if res.Manual {
		t.Error("Manual: got true, want false")
	}
	if res.Analysis == nil || res.Analysis.Boundaries.HexSideLength != 40 {
		t.Fatalf("analysis: got %+v, want side length 40", res.Analysis)
	}
	if res.Params.Rows != 1 || res.Params.Cols != 5 {
		t.Errorf("grid: got %dx%d, want 1x5", res.Params.Rows, res.Params.Cols)
	}
	if len(res.Files) != 4 {
		t.Errorf("files: got %d, want 4", len(res.Files))
	}
	for _, kind := range []hexgrid.EventKind{EventModeSelected, hexgrid.EventGridCalculated, hexgrid.EventTileExtracted, EventTilesWritten} {
		if !rec.Has(kind) {
			t.Errorf("missing %s event", kind)
		}
	}
}

func TestPlan_ZeroOneMask(t *testing.T) {
	dir := t.TempDir()
	imagePath := writePNG(t, dir, "map.png", solid(200, 120, color.RGBA{90, 160, 60, 255}))
	maskPath := writePNG(t, dir, "edges.png", zigzagMaskOf(1))

	req := baseRequest(t, imagePath)
	req.MaskPath = maskPath

	plan, err := NewRunner(nil, nil).Plan(req)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if plan.Analysis == nil || plan.Analysis.Boundaries.HexSideLength != 40 {
		t.Fatalf("analysis: got %+v, want side length 40", plan.Analysis)
	}
	if plan.Params.Rows != 1 || plan.Params.Cols != 5 {
		t.Errorf("grid: got %dx%d, want 1x5", plan.Params.Rows, plan.Params.Cols)
	}
	if len(plan.Cells) != 4 {
		t.Errorf("cells: got %d, want 4", len(plan.Cells))
	}
}

func TestPlan_OverridesInAutoMode(t *testing.T) {
	dir := t.TempDir()
	imagePath := writePNG(t, dir, "map.png", solid(200, 120, color.White))
	maskPath := writePNG(t, dir, "edges.png", zigzagMask())

	req := baseRequest(t, imagePath)
	req.MaskPath = maskPath
	req.Overrides = hexgrid.Overrides{Rows: intPtr(2)}
	rec := &hexgrid.Recorder{}

	plan, err := NewRunner(nil, rec).Plan(req)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if plan.Manual {
		t.Error("rows alone should not select manual mode")
	}
	if plan.Params.Rows != 2 {
		t.Errorf("rows: got %d, want 2", plan.Params.Rows)
	}
	if len(plan.Cells) != 8 {
		t.Errorf("cells: got %d, want 8", len(plan.Cells))
	}
	if !rec.Has(hexgrid.EventOverrideApplied) {
		t.Error("missing override event")
	}
}

func TestPlan_DerivedMaskWithoutEdges(t *testing.T) {
	dir := t.TempDir()
	imagePath := writePNG(t, dir, "flat.png", solid(80, 80, color.RGBA{40, 40, 40, 255}))

	_, err := NewRunner(nil, nil).Plan(baseRequest(t, imagePath))
	if !errors.Is(err, hexgrid.ErrBoundaryNotFound) {
		t.Errorf("error: got %v, want ErrBoundaryNotFound", err)
	}
}

func TestPlan_MaskSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	imagePath := writePNG(t, dir, "map.png", solid(100, 100, color.White))
	maskPath := writePNG(t, dir, "edges.png", zigzagMask())

	req := baseRequest(t, imagePath)
	req.MaskPath = maskPath

	if _, err := NewRunner(nil, nil).Plan(req); err == nil {
		t.Error("expected error for mismatched mask size, got nil")
	}
}

func TestPlan_MissingImage(t *testing.T) {
	req := baseRequest(t, filepath.Join(t.TempDir(), "absent.png"))

	_, err := NewRunner(nil, nil).Plan(req)
	if !errors.Is(err, imaging.ErrImageLoad) {
		t.Errorf("error: got %v, want ErrImageLoad", err)
	}
}

func TestSplit_DebugImages(t *testing.T) {
	dir := t.TempDir()
	imagePath := writePNG(t, dir, "map.png", solid(200, 120, color.White))
	maskPath := writePNG(t, dir, "edges.png", zigzagMask())

	req := baseRequest(t, imagePath)
	req.MaskPath = maskPath
	req.Debug = true

	if _, err := NewRunner(nil, nil).Split(context.Background(), req); err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	for _, name := range []string{debugviz.BoundariesFile, debugviz.SpacingGridFile, debugviz.CellsFile, debugviz.TileOutlinesFile} {
		if _, err := os.Stat(filepath.Join(req.DebugDir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestEdgeMask_FromImage(t *testing.T) {
	img := solid(60, 60, color.White)
	for y := 20; y < 40; y++ {
		for x := 20; x < 40; x++ {
			img.Set(x, y, color.Black)
		}
	}
	imagePath := writePNG(t, t.TempDir(), "map.png", img)

	mask, err := NewRunner(nil, nil).EdgeMask(baseRequest(t, imagePath))
	if err != nil {
		t.Fatalf("EdgeMask failed: %v", err)
	}
	if mask.GrayAt(20, 30).Y != 255 {
		t.Error("expected an edge on the square's border")
	}
	if mask.GrayAt(5, 5).Y != 0 {
		t.Error("background should not be an edge")
	}
}
