package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"
)

// DefaultGridColor is used when GridSpec.Color is empty or unparsable.
var DefaultGridColor = color.RGBA{255, 0, 0, 128}

// GridSpec describes a lattice of lines drawn at a fixed pitch from an
// origin. Origin and spacing may be fractional; lines land on the nearest
// pixel.
type GridSpec struct {
	OriginX  float64
	OriginY  float64
	SpacingX float64
	SpacingY float64

	// Color is "#RRGGBB" or "#RRGGBBAA".
	Color string

	// ShowCoordinates labels every intersection with its pixel position.
	ShowCoordinates bool
}

// GridOverlay draws spec over a copy of img. Lines extend in both
// directions from the origin until they leave the image.
func GridOverlay(img image.Image, spec GridSpec) (*image.RGBA, error) {
	if spec.SpacingX <= 0 || spec.SpacingY <= 0 {
		return nil, fmt.Errorf("invalid grid spacing %gx%g: must be positive", spec.SpacingX, spec.SpacingY)
	}

	bounds := img.Bounds()
	gridColor, err := parseHexColor(spec.Color)
	if err != nil {
		gridColor = DefaultGridColor
	}

	result := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	xs := gridLines(spec.OriginX, spec.SpacingX, bounds.Dx())
	ys := gridLines(spec.OriginY, spec.SpacingY, bounds.Dy())

	for _, x := range xs {
		for y := 0; y < bounds.Dy(); y++ {
			result.Set(x, y, gridColor)
		}
	}
	for _, y := range ys {
		for x := 0; x < bounds.Dx(); x++ {
			result.Set(x, y, gridColor)
		}
	}

	if spec.ShowCoordinates {
		labelColor := color.RGBA{255, 255, 255, 255}
		bgColor := color.RGBA{0, 0, 0, 180}

		for _, y := range ys {
			for _, x := range xs {
				drawLabel(result, x+2, y+2, fmt.Sprintf("%d,%d", x, y), labelColor, bgColor)
			}
		}
	}

	return result, nil
}

// gridLines returns the pixel positions of origin + k*spacing that fall
// in [0, limit), for every integer k.
func gridLines(origin, spacing float64, limit int) []int {
	var lines []int
	first := math.Ceil((-0.5 - origin) / spacing)
	for k := first; ; k++ {
		p := int(math.Round(origin + k*spacing))
		if p >= limit {
			break
		}
		if p >= 0 && (len(lines) == 0 || lines[len(lines)-1] != p) {
			lines = append(lines, p)
		}
	}
	return lines
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// drawLabel draws text in a 3x5 pixel font with its top-left corner at
// (x, y). Only digits, comma and underscore have glyphs; other runes leave a gap.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		',': {"000", "000", "000", "010", "010"},
		'_': {"000", "000", "000", "000", "111"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
				img.Set(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					px, py := cx+col, y+row
					if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
						img.Set(px, py, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}

// DrawLabel writes a short numeric label such as a tile id ("03_07") onto
// img. Runes other than digits, comma and underscore are skipped.
func DrawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	drawLabel(img, x, y, text, fg, bg)
}
