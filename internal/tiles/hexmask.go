package tiles

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/ironsheep/hexmap-tools/internal/hexgrid"
)

// MaskRadiusFactor shrinks the hexagon slightly inside the hex bounding box
// so neighbouring borders do not bleed into a tile.
const MaskRadiusFactor = 0.95

// maskAlphaCutoff is the antialiased coverage at or above which a mask pixel
// counts as inside.
const maskAlphaCutoff = 128

// MaskRadius is the circumradius of the tile mask for p:
// half the larger hex dimension (integer division) times MaskRadiusFactor.
func MaskRadius(p hexgrid.GridParams) float64 {
	return float64(max(p.HexWidth, p.HexHeight)/2) * MaskRadiusFactor
}

// HexVertices returns the six corners of a hexagon centered at (cx, cy)
// with circumradius r, at angles 30°, 90°, ..., 330° measured clockwise in
// image coordinates. Those angles put a vertex straight above and below the
// center, so the hexagon is pointy-top with vertical left and right sides.
func HexVertices(cx, cy, r float64) []gg.Point {
	pts := make([]gg.Point, 6)
	for i := range pts {
		a := float64(i)*math.Pi/3 + math.Pi/6
		pts[i] = gg.Point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
	return pts
}

// HexMask rasterises a hexagon into a width x height alpha mask. Pixels
// inside the hexagon are 255, all others 0.
func HexMask(width, height int, cx, cy, r float64) *image.Alpha {
	dc := gg.NewContext(width, height)
	traceHexagon(dc, cx, cy, r)
	dc.SetColor(color.White)
	dc.Fill()

	mask := dc.AsMask()
	for i, a := range mask.Pix {
		if a >= maskAlphaCutoff {
			mask.Pix[i] = 255
		} else {
			mask.Pix[i] = 0
		}
	}
	return mask
}

// traceHexagon appends a closed hexagon path to dc.
func traceHexagon(dc *gg.Context, cx, cy, r float64) {
	for i, v := range HexVertices(cx, cy, r) {
		if i == 0 {
			dc.MoveTo(v.X, v.Y)
		} else {
			dc.LineTo(v.X, v.Y)
		}
	}
	dc.ClosePath()
}

// applyMask overwrites the alpha channel of img with mask. Both images must
// share the same bounds.
func applyMask(img *image.NRGBA, mask *image.Alpha) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.Pix[img.PixOffset(x, y)+3] = mask.Pix[mask.PixOffset(x, y)]
		}
	}
}

// MaskArea counts the opaque pixels of a mask.
func MaskArea(mask *image.Alpha) int {
	n := 0
	for _, a := range mask.Pix {
		if a > 0 {
			n++
		}
	}
	return n
}
