package debugviz

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/hexmap-tools/internal/hexgrid"
	"github.com/ironsheep/hexmap-tools/internal/tiles"
)

const (
	centerDotRadius = 3
	cellCircle      = 15
)

// directionColors tints each profile in the combined view.
var directionColors = map[hexgrid.Direction]color.RGBA{
	hexgrid.FromTop:    {0, 255, 0, 255},
	hexgrid.FromBottom: {0, 0, 255, 255},
	hexgrid.FromLeft:   {255, 0, 0, 255},
	hexgrid.FromRight:  {0, 255, 255, 255},
}

// rowPalette returns n evenly spaced, saturated hues.
func rowPalette(n int) []colorful.Color {
	n = max(n, 1)
	palette := make([]colorful.Color, n)
	for i := range palette {
		palette[i] = colorful.Hsv(float64(i)*360/float64(n), 0.85, 0.95)
	}
	return palette
}

func drawBoundaries(base image.Image, b hexgrid.Boundaries) *gg.Context {
	dc := gg.NewContextForImage(base)
	w, h := float64(dc.Width()), float64(dc.Height())
	dc.SetLineWidth(2)

	dc.SetRGB(0, 1, 0)
	dc.DrawLine(0, float64(b.Top), w, float64(b.Top))
	dc.DrawLine(0, float64(b.Bottom), w, float64(b.Bottom))
	dc.Stroke()

	dc.SetRGB(0, 0, 1)
	dc.DrawLine(float64(b.Left), 0, float64(b.Left), h)
	dc.DrawLine(float64(b.Right), 0, float64(b.Right), h)
	dc.Stroke()

	dc.SetRGB(1, 0, 0)
	dc.DrawRectangle(float64(b.Left), float64(b.Top), float64(b.Width), float64(b.Height))
	dc.Stroke()

	dc.SetRGB(1, 1, 1)
	dc.DrawString(fmt.Sprintf("W: %d, H: %d, side: %d", b.Width, b.Height, b.HexSideLength), 10, 20)
	return dc
}

// profileImage plots one profile as the silhouette seen from its side.
func profileImage(width, height int, d hexgrid.Direction, profile []float64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	plotProfile(profile, d, func(x, y int) {
		img.SetGray(x, y, color.Gray{Y: 255})
	})
	return img
}

// combinedProfiles overlays all four profiles, one color per direction.
func combinedProfiles(width, height int, profiles hexgrid.Profiles) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for _, d := range hexgrid.Directions {
		c := directionColors[d]
		plotProfile(profiles.Get(d), d, func(x, y int) {
			prev := img.RGBAAt(x, y)
			img.SetRGBA(x, y, color.RGBA{prev.R | c.R, prev.G | c.G, prev.B | c.B, 255})
		})
	}
	return img
}

func plotProfile(profile []float64, d hexgrid.Direction, set func(x, y int)) {
	for i, v := range profile {
		if v <= 0 {
			continue
		}
		switch d {
		case hexgrid.FromTop, hexgrid.FromBottom:
			set(i, int(v))
		default:
			set(int(v), i)
		}
	}
}

func drawCells(base image.Image, p hexgrid.GridParams, cells []hexgrid.HexCell) *gg.Context {
	dc := gg.NewContextForImage(base)
	palette := rowPalette(p.Rows)

	for _, c := range cells {
		dc.SetColor(palette[c.Row%len(palette)])
		dc.DrawCircle(c.CenterX, c.CenterY, centerDotRadius)
		dc.Fill()

		dc.SetLineWidth(2)
		dc.DrawCircle(c.CenterX, c.CenterY, cellCircle)
		dc.Stroke()

		dc.DrawStringAnchored(fmt.Sprintf("%d,%d", c.Row, c.Col), c.CenterX, c.CenterY-cellCircle-4, 0.5, 0)
	}
	return dc
}

func drawTileOutlines(img image.Image, p hexgrid.GridParams, cells []hexgrid.HexCell, e *tiles.Extractor) *gg.Context {
	dc := gg.NewContextForImage(img)
	bounds := img.Bounds()
	r := tiles.MaskRadius(p)
	palette := rowPalette(p.Rows)

	dc.SetLineWidth(1)
	for _, c := range cells {
		window := e.Window(p, c, bounds)
		if window.Empty() {
			continue
		}
		dc.SetRGBA(1, 1, 1, 0.5)
		dc.DrawRectangle(float64(window.Min.X), float64(window.Min.Y), float64(window.Dx()), float64(window.Dy()))
		dc.Stroke()

		dc.SetColor(palette[c.Row%len(palette)])
		for i, v := range tiles.HexVertices(c.CenterX, c.CenterY, r) {
			if i == 0 {
				dc.MoveTo(v.X, v.Y)
			} else {
				dc.LineTo(v.X, v.Y)
			}
		}
		dc.ClosePath()
		dc.Stroke()
	}
	return dc
}
