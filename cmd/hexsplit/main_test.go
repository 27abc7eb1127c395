package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/hexmap-tools/internal/hexgrid"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", path, err)
	}
}

// fixture writes a 200x120 map and its zigzag edge mask into a temp dir.
func fixture(t *testing.T) (dir, imagePath, maskPath string) {
	dir = t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 200, 120))
	mask := image.NewGray(image.Rect(0, 0, 200, 120))
	for x := 0; x < 200; x++ {
		for y := 0; y < 120; y++ {
			img.Set(x, y, color.RGBA{120, 180, 90, 255})
		}
		d := x%40 - 20
		if d < 0 {
			d = -d
		}
		mask.SetGray(x, 20+d, color.Gray{Y: 255})
	}
	imagePath = filepath.Join(dir, "map.png")
	maskPath = filepath.Join(dir, "edges.png")
	writePNG(t, imagePath, img)
	writePNG(t, maskPath, mask)
	return dir, imagePath, maskPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeCommand(t *testing.T) {
	dir, imagePath, maskPath := fixture(t)

	out, err := run(t, "analyze", imagePath, "--mask", maskPath, "--quiet",
		"--config", filepath.Join(dir, "none.yaml"), "--cells")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	var plan struct {
		Manual bool               `json:"manual"`
		Params hexgrid.GridParams `json:"params"`
		Cells  []hexgrid.HexCell  `json:"cells"`
	}
	if err := json.Unmarshal([]byte(out), &plan); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if plan.Manual {
		t.Error("manual: got true, want false")
	}
	if plan.Params.Rows != 1 || plan.Params.Cols != 5 {
		t.Errorf("grid: got %dx%d, want 1x5", plan.Params.Rows, plan.Params.Cols)
	}
	if len(plan.Cells) != 4 {
		t.Errorf("cells: got %d, want 4", len(plan.Cells))
	}
}

func TestSplitCommand_Manual(t *testing.T) {
	dir, imagePath, _ := fixture(t)
	outDir := filepath.Join(dir, "tiles")

	out, err := run(t, "split", imagePath, "--rows", "2", "--cols", "4", "-o", outDir, "--quiet",
		"--config", filepath.Join(dir, "none.yaml"))
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if !strings.Contains(out, "manual mode, 2x4 grid") {
		t.Errorf("output: got %q, want manual mode summary", out)
	}
	if _, err := os.Stat(filepath.Join(outDir, "00_00.png")); err != nil {
		t.Errorf("first tile: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "manifest.json")); err != nil {
		t.Errorf("manifest: %v", err)
	}
}

func TestSplitCommand_ConfigFile(t *testing.T) {
	dir, imagePath, maskPath := fixture(t)
	cfgPath := filepath.Join(dir, "hexsplit.yaml")
	outDir := filepath.Join(dir, "from-config")
	content := "output_dir: " + outDir + "\ntile_format: tiff\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := run(t, "split", imagePath, "--mask", maskPath, "--config", cfgPath, "--quiet"); err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "00_00.tiff")); err != nil {
		t.Errorf("tiff tile: %v", err)
	}
}

func TestSplitCommand_InvalidFlag(t *testing.T) {
	dir, imagePath, _ := fixture(t)

	_, err := run(t, "split", imagePath, "--rows", "0", "--config", filepath.Join(dir, "none.yaml"))
	if err == nil {
		t.Error("expected error for --rows 0, got nil")
	}
}

func TestEdgesCommand(t *testing.T) {
	dir, imagePath, _ := fixture(t)
	output := filepath.Join(dir, "out-edges.png")

	out, err := run(t, "edges", imagePath, "-o", output, "--config", filepath.Join(dir, "none.yaml"))
	if err != nil {
		t.Fatalf("edges failed: %v", err)
	}
	if !strings.Contains(out, "(0 edge pixels)") {
		t.Errorf("uniform image: got %q, want 0 edge pixels", out)
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("mask file: %v", err)
	}
}
