package tiles

import (
	"context"
	"fmt"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/hexmap-tools/internal/hexgrid"
	"github.com/ironsheep/hexmap-tools/internal/imaging"
)

// DefaultMargin is the padding in pixels added on each side of the hex
// bounding box when cutting a tile window.
const DefaultMargin = 5

// Tile is one extracted hex tile.
type Tile struct {
	Cell hexgrid.HexCell

	// ID is the cell's "RR_CC" identifier.
	ID string

	// Window is the region of the source image the tile was cut from.
	Window image.Rectangle

	// Image is the cropped window with the hexagon mask as its alpha
	// channel. Its origin is (0, 0).
	Image *image.NRGBA
}

// Extractor cuts masked tiles out of a source image.
type Extractor struct {
	// Margin is added on each side of the hex bounding box. Negative values
	// count as zero.
	Margin int

	// Workers bounds the number of cells processed at once. Zero or less
	// selects runtime.NumCPU().
	Workers int

	Events hexgrid.EventSink
}

// NewExtractor returns an Extractor with DefaultMargin.
func NewExtractor(events hexgrid.EventSink) *Extractor {
	return &Extractor{Margin: DefaultMargin, Events: events}
}

// WindowSide is the side length of every tile window for p.
func (e *Extractor) WindowSide(p hexgrid.GridParams) int {
	return max(p.HexWidth, p.HexHeight) + 2*max(e.Margin, 0)
}

// Window returns the clamped square window for cell within bounds.
func (e *Extractor) Window(p hexgrid.GridParams, cell hexgrid.HexCell, bounds image.Rectangle) image.Rectangle {
	return imaging.CenteredWindow(cell.CenterX, cell.CenterY, e.WindowSide(p), bounds)
}

// ExtractCell cuts one tile. It returns nil, nil when the cell's window
// does not overlap the image.
func (e *Extractor) ExtractCell(img image.Image, p hexgrid.GridParams, cell hexgrid.HexCell) (*Tile, error) {
	bounds := img.Bounds()
	window := e.Window(p, cell, bounds)
	if window.Empty() {
		e.emit(hexgrid.Event{
			Kind:    hexgrid.EventDegenerateCellWindow,
			Level:   hexgrid.LevelDebug,
			Message: "skipping cell with empty window",
			Fields: map[string]interface{}{
				"cell":     cell.ID(),
				"center_x": cell.CenterX,
				"center_y": cell.CenterY,
			},
		})
		return nil, nil
	}

	cropped, err := imaging.CropWindow(img, window)
	if err != nil {
		return nil, fmt.Errorf("failed to crop cell %s: %w", cell.ID(), err)
	}

	// The mask center is relative to the clamped window, so tiles on the
	// image border keep their hexagon over the cell center.
	mask := HexMask(window.Dx(), window.Dy(),
		cell.CenterX-float64(window.Min.X),
		cell.CenterY-float64(window.Min.Y),
		MaskRadius(p))
	applyMask(cropped, mask)

	return &Tile{
		Cell:   cell,
		ID:     cell.ID(),
		Window: window,
		Image:  cropped,
	}, nil
}

// Extract cuts a tile for every cell. Cells with empty windows are left
// out; the remaining tiles keep the order of cells.
func (e *Extractor) Extract(ctx context.Context, img image.Image, p hexgrid.GridParams, cells []hexgrid.HexCell) ([]Tile, error) {
	results := make([]*Tile, len(cells))
	err := e.each(ctx, cells, func(i int, cell hexgrid.HexCell) error {
		tile, err := e.ExtractCell(img, p, cell)
		if err != nil {
			return err
		}
		results[i] = tile
		return nil
	})
	if err != nil {
		return nil, err
	}

	tiles := make([]Tile, 0, len(cells))
	for _, t := range results {
		if t != nil {
			tiles = append(tiles, *t)
		}
	}
	return tiles, nil
}

// ExtractTo cuts every cell and hands each tile to sink as soon as it is
// ready. It returns the locations reported by the sink in cell order.
func (e *Extractor) ExtractTo(ctx context.Context, img image.Image, p hexgrid.GridParams, cells []hexgrid.HexCell, sink TileSink) ([]string, error) {
	results := make([]string, len(cells))
	err := e.each(ctx, cells, func(i int, cell hexgrid.HexCell) error {
		tile, err := e.ExtractCell(img, p, cell)
		if err != nil || tile == nil {
			return err
		}
		path, err := sink.WriteTile(*tile)
		if err != nil {
			return fmt.Errorf("failed to write tile %s: %w", tile.ID, err)
		}
		e.emit(hexgrid.Event{
			Kind:    hexgrid.EventTileExtracted,
			Level:   hexgrid.LevelDebug,
			Message: "tile written",
			Fields: map[string]interface{}{
				"cell":     tile.ID,
				"path":     path,
				"center_x": cell.CenterX,
				"center_y": cell.CenterY,
			},
		})
		results[i] = path
		return nil
	})
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(cells))
	for _, path := range results {
		if path != "" {
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// each runs fn for every cell on a bounded worker group. Work that has not
// started when ctx is cancelled or fn fails is skipped.
func (e *Extractor) each(ctx context.Context, cells []hexgrid.HexCell, fn func(int, hexgrid.HexCell) error) error {
	workers := e.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, cell := range cells {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(i, cell)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (e *Extractor) emit(ev hexgrid.Event) {
	if e.Events != nil {
		e.Events.Emit(ev)
	}
}
