package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/hexmap-tools/internal/config"
)

// gridFlags are the grid-shaping flags accepted by split and analyze.
type gridFlags struct {
	mask          string
	expectedTiles int
	rows          int
	cols          int
	vertSpacing   float64
	invertOffset  bool
	blurRadius    float64
	threshold     uint8
}

func (g *gridFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&g.mask, "mask", "", "Pre-computed edge mask (default: derived from the image)")
	f.IntVar(&g.expectedTiles, "expected-tiles", 34, "Expected number of tiles in the map")
	f.IntVar(&g.rows, "rows", 0, "Override number of rows (with --cols: manual mode)")
	f.IntVar(&g.cols, "cols", 0, "Override number of columns (with --rows: manual mode)")
	f.Float64Var(&g.vertSpacing, "vert-spacing", 0, "Override vertical spacing in pixels")
	f.BoolVar(&g.invertOffset, "invert-offset", false, "Offset even rows instead of odd rows")
	f.Float64Var(&g.blurRadius, "blur", 1.0, "Blur radius for edge detection")
	f.Uint8Var(&g.threshold, "threshold", 64, "Gradient threshold for edge detection (1-255)")
}

// apply copies every flag the user set onto cfg. Unset flags leave the
// config file values alone.
func (g *gridFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("expected-tiles") {
		cfg.ExpectedTiles = g.expectedTiles
	}
	if f.Changed("rows") {
		cfg.Rows = &g.rows
	}
	if f.Changed("cols") {
		cfg.Cols = &g.cols
	}
	if f.Changed("vert-spacing") {
		cfg.VertSpacing = &g.vertSpacing
	}
	if f.Changed("invert-offset") {
		cfg.InvertOffset = g.invertOffset
	}
	if f.Changed("blur") {
		cfg.Edges.BlurRadius = g.blurRadius
	}
	if f.Changed("threshold") {
		cfg.Edges.Threshold = g.threshold
	}
	return cfg.Validate()
}
