// Package debugviz renders the intermediate results of hex grid inference
// as PNG files so a human can see what the detector saw.
package debugviz

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/ironsheep/hexmap-tools/internal/hexgrid"
	"github.com/ironsheep/hexmap-tools/internal/imaging"
	"github.com/ironsheep/hexmap-tools/internal/tiles"
)

// File names written by Observer.
const (
	BoundariesFile    = "map_boundaries.png"
	CombinedEdgesFile = "edges_combined.png"
	SpacingGridFile   = "spacing_grid.png"
	CellsFile         = "generated_cells.png"
	TileOutlinesFile  = "tile_outlines.png"
)

// ProfileFile is the name of the image for one directional profile.
func ProfileFile(d hexgrid.Direction) string {
	return "edge_" + d.String() + ".png"
}

// Observer writes one debug image per inference stage into Dir. It
// implements hexgrid.StageObserver.
//
// Drawing failures never interrupt inference: they are reported as
// EventDebugImageFailed and the stage continues.
type Observer struct {
	Dir    string
	Events hexgrid.EventSink

	// Background, when set, is drawn under the overlays instead of the
	// edge mask. It is usually the source color map.
	Background image.Image
}

var _ hexgrid.StageObserver = (*Observer)(nil)

// New creates dir and returns an Observer writing into it.
func New(dir string, events hexgrid.EventSink) (*Observer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create debug directory: %w", err)
	}
	return &Observer{Dir: dir, Events: events}, nil
}

// ObserveBoundaries writes the boundary box, each directional profile and a
// combined profile view.
func (o *Observer) ObserveBoundaries(mask *hexgrid.EdgeMask, profiles hexgrid.Profiles, b hexgrid.Boundaries) {
	o.save(BoundariesFile, func(path string) error {
		return drawBoundaries(o.base(mask), b).SavePNG(path)
	})
	for _, d := range hexgrid.Directions {
		o.save(ProfileFile(d), func(path string) error {
			return imaging.Save(profileImage(mask.Width(), mask.Height(), d, profiles.Get(d)), path)
		})
	}
	o.save(CombinedEdgesFile, func(path string) error {
		return imaging.Save(combinedProfiles(mask.Width(), mask.Height(), profiles), path)
	})
}

// ObserveGrid overlays the center lattice of p.
func (o *Observer) ObserveGrid(mask *hexgrid.EdgeMask, p hexgrid.GridParams) {
	o.save(SpacingGridFile, func(path string) error {
		grid, err := imaging.GridOverlay(o.base(mask), imaging.GridSpec{
			OriginX:         p.StartX,
			OriginY:         p.StartY,
			SpacingX:        p.SpacingX,
			SpacingY:        p.SpacingY,
			Color:           "#FF00FFC0",
			ShowCoordinates: true,
		})
		if err != nil {
			return err
		}
		return imaging.Save(grid, path)
	})
}

// ObserveCells marks every enumerated cell with its center, a circle and
// its row,col label.
func (o *Observer) ObserveCells(mask *hexgrid.EdgeMask, p hexgrid.GridParams, cells []hexgrid.HexCell) {
	o.save(CellsFile, func(path string) error {
		return drawCells(o.base(mask), p, cells).SavePNG(path)
	})
}

// ObserveTiles outlines the window and hexagon mask of every cell the
// extractor will cut from img.
func (o *Observer) ObserveTiles(img image.Image, p hexgrid.GridParams, cells []hexgrid.HexCell, e *tiles.Extractor) {
	o.save(TileOutlinesFile, func(path string) error {
		return drawTileOutlines(img, p, cells, e).SavePNG(path)
	})
}

func (o *Observer) base(mask *hexgrid.EdgeMask) image.Image {
	if o.Background != nil {
		return o.Background
	}
	return mask.Gray()
}

func (o *Observer) save(name string, write func(path string) error) {
	path := filepath.Join(o.Dir, name)
	if err := write(path); err != nil {
		if o.Events != nil {
			o.Events.Emit(hexgrid.Event{
				Kind:    hexgrid.EventDebugImageFailed,
				Level:   hexgrid.LevelWarn,
				Message: "failed to write debug image",
				Fields: map[string]interface{}{
					"path":  path,
					"error": err.Error(),
				},
			})
		}
	}
}
