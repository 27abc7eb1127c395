// Package pipeline wires edge detection, grid inference and tile extraction
// into the runs exposed by the command line tool and the MCP server.
//
// A run has two modes. Automatic mode derives an edge mask (from a
// pre-computed mask file or from the color map itself), infers the grid
// with hexgrid.Analyzer and then applies any overrides. Manual mode is
// selected when both rows and cols are given; it sizes the grid from the
// image dimensions alone and never looks at edges.
package pipeline

import (
	"context"
	"fmt"
	"image"

	"github.com/ironsheep/hexmap-tools/internal/config"
	"github.com/ironsheep/hexmap-tools/internal/debugviz"
	"github.com/ironsheep/hexmap-tools/internal/hexgrid"
	"github.com/ironsheep/hexmap-tools/internal/imaging"
	"github.com/ironsheep/hexmap-tools/internal/tiles"
)

// Events emitted by the runner in addition to those of the stages it
// drives.
const (
	EventModeSelected hexgrid.EventKind = "mode_selected"
	EventTilesWritten hexgrid.EventKind = "tiles_written"
)

// Request describes one run.
type Request struct {
	// ImagePath is the color map to split.
	ImagePath string

	// MaskPath optionally names a pre-computed edge mask with the same
	// dimensions as the image. When empty the mask is derived from the
	// image with Edges.
	MaskPath string

	ExpectedTiles int
	Overrides     hexgrid.Overrides
	Offset        hexgrid.OffsetMode
	Edges         imaging.EdgeOptions

	OutputDir  string
	TileFormat string
	Margin     int
	Workers    int

	// Debug enables debug images in DebugDir.
	Debug    bool
	DebugDir string
}

// RequestFromConfig builds a request for imagePath from cfg.
func RequestFromConfig(cfg *config.Config, imagePath, maskPath string) Request {
	return Request{
		ImagePath:     imagePath,
		MaskPath:      maskPath,
		ExpectedTiles: cfg.ExpectedTiles,
		Overrides:     cfg.Overrides(),
		Offset:        cfg.OffsetMode(),
		Edges:         cfg.Edges,
		OutputDir:     cfg.OutputDir,
		TileFormat:    cfg.TileFormat,
		Margin:        cfg.Margin,
		Workers:       cfg.Workers,
		Debug:         cfg.Debug,
		DebugDir:      cfg.DebugDir,
	}
}

// Plan is everything known about a run before any tile is written.
type Plan struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Manual bool   `json:"manual"`

	// Analysis is nil in manual mode.
	Analysis *hexgrid.Analysis `json:"analysis,omitempty"`

	Params hexgrid.GridParams `json:"params"`
	Offset hexgrid.OffsetMode `json:"offset_mode"`
	Cells  []hexgrid.HexCell  `json:"cells"`

	image    image.Image
	observer *debugviz.Observer
}

// Image returns the decoded source image.
func (p *Plan) Image() image.Image { return p.image }

// Result is the outcome of Split.
type Result struct {
	*Plan
	Files    []string `json:"files"`
	Manifest string   `json:"manifest"`
}

// Runner executes requests. The zero value is not usable; call NewRunner.
type Runner struct {
	cache  *imaging.ImageCache
	events hexgrid.EventSink
}

// NewRunner returns a Runner loading images through cache. A nil cache gets
// a private one; a nil sink discards events.
func NewRunner(cache *imaging.ImageCache, events hexgrid.EventSink) *Runner {
	if cache == nil {
		cache = imaging.NewImageCache(0)
	}
	if events == nil {
		events = hexgrid.Discard
	}
	return &Runner{cache: cache, events: events}
}

// EdgeMask returns the edge mask for req: the binarized mask file when
// MaskPath is set, otherwise the mask derived from the image.
func (r *Runner) EdgeMask(req Request) (*image.Gray, error) {
	if req.MaskPath != "" {
		return imaging.LoadEdgeMask(r.cache, req.MaskPath)
	}
	img, err := r.cache.Load(req.ImagePath)
	if err != nil {
		return nil, err
	}
	return imaging.EdgeMask(img, req.Edges), nil
}

// Plan loads the image, resolves the grid and enumerates the cells.
func (r *Runner) Plan(req Request) (*Plan, error) {
	img, err := r.cache.Load(req.ImagePath)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	plan := &Plan{
		Source: req.ImagePath,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Manual: req.Overrides.IsManual(),
		Offset: req.Offset,
		image:  img,
	}

	if req.Debug {
		obs, err := debugviz.New(req.DebugDir, r.events)
		if err != nil {
			return nil, err
		}
		obs.Background = img
		plan.observer = obs
	}

	r.events.Emit(hexgrid.Event{
		Kind:    EventModeSelected,
		Level:   hexgrid.LevelInfo,
		Message: "grid mode selected",
		Fields: map[string]interface{}{
			"manual": plan.Manual,
			"image":  req.ImagePath,
			"size":   fmt.Sprintf("%dx%d", plan.Width, plan.Height),
		},
	})

	if plan.Manual {
		err = r.planManual(req, plan)
	} else {
		err = r.planAuto(req, plan)
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *Runner) planManual(req Request, plan *Plan) error {
	p, err := hexgrid.ManualGridParams(plan.Width, plan.Height, *req.Overrides.Rows, *req.Overrides.Cols, req.Overrides.SpacingY)
	if err != nil {
		return fmt.Errorf("failed to size manual grid: %w", err)
	}
	plan.Params = p
	plan.Cells = hexgrid.CellEnumerator{Events: r.events}.Enumerate(p, plan.Width, plan.Height, req.Offset)

	if plan.observer != nil {
		// No edges were computed; the observer draws on the color map.
		blank := hexgrid.NewEdgeMask(image.NewGray(image.Rect(0, 0, plan.Width, plan.Height)))
		plan.observer.ObserveGrid(blank, p)
		plan.observer.ObserveCells(blank, p, plan.Cells)
	}
	return nil
}

func (r *Runner) planAuto(req Request, plan *Plan) error {
	gray, err := r.EdgeMask(req)
	if err != nil {
		return err
	}
	if gray.Bounds().Dx() != plan.Width || gray.Bounds().Dy() != plan.Height {
		return fmt.Errorf("edge mask is %dx%d but image is %dx%d",
			gray.Bounds().Dx(), gray.Bounds().Dy(), plan.Width, plan.Height)
	}
	mask := hexgrid.NewEdgeMask(gray)

	opts := []hexgrid.Option{hexgrid.WithEvents(r.events)}
	if plan.observer != nil {
		opts = append(opts, hexgrid.WithObserver(plan.observer))
	}
	analyzer := hexgrid.NewAnalyzer(opts...)

	analysis, err := analyzer.Analyze(mask, req.ExpectedTiles)
	if err != nil {
		return err
	}
	plan.Analysis = &analysis

	p, err := analysis.Params.WithOverrides(req.Overrides, r.events)
	if err != nil {
		return fmt.Errorf("failed to apply overrides: %w", err)
	}
	plan.Params = p
	plan.Cells = analyzer.Cells(mask, p, req.Offset)
	return nil
}

// Extractor returns the tile extractor configured by req.
func (r *Runner) Extractor(req Request) *tiles.Extractor {
	return &tiles.Extractor{Margin: req.Margin, Workers: req.Workers, Events: r.events}
}

// Split plans the run, writes every tile into req.OutputDir and records a
// manifest next to them.
func (r *Runner) Split(ctx context.Context, req Request) (*Result, error) {
	plan, err := r.Plan(req)
	if err != nil {
		return nil, err
	}

	sink, err := tiles.NewDirSink(req.OutputDir, req.TileFormat)
	if err != nil {
		return nil, err
	}

	extractor := r.Extractor(req)
	if plan.observer != nil {
		plan.observer.ObserveTiles(plan.image, plan.Params, plan.Cells, extractor)
	}

	files, err := extractor.ExtractTo(ctx, plan.image, plan.Params, plan.Cells, sink)
	if err != nil {
		return nil, fmt.Errorf("failed to extract tiles: %w", err)
	}

	manifest := tiles.NewManifest(req.ImagePath, plan.Params, plan.Offset, plan.Manual)
	manifest.AddFiles(plan.Cells, files)
	manifestPath, err := manifest.WriteFile(req.OutputDir)
	if err != nil {
		return nil, err
	}

	r.events.Emit(hexgrid.Event{
		Kind:    EventTilesWritten,
		Level:   hexgrid.LevelInfo,
		Message: "tiles extracted",
		Fields: map[string]interface{}{
			"tiles":  len(files),
			"cells":  len(plan.Cells),
			"dir":    req.OutputDir,
			"run_id": manifest.RunID,
		},
	})

	return &Result{Plan: plan, Files: files, Manifest: manifestPath}, nil
}
