package hexgrid

import (
	"image"
	"image/color"
)

// EdgeMask is a binary edge image. A pixel is an edge when its source value
// was greater than zero.
type EdgeMask struct {
	width  int
	height int
	edge   []bool
}

// NewEdgeMask copies g into an EdgeMask. The mask is re-based so that
// g.Bounds().Min becomes (0, 0).
func NewEdgeMask(g *image.Gray) *EdgeMask {
	b := g.Bounds()
	m := &EdgeMask{
		width:  b.Dx(),
		height: b.Dy(),
		edge:   make([]bool, b.Dx()*b.Dy()),
	}
	for y := 0; y < m.height; y++ {
		off := g.PixOffset(b.Min.X, b.Min.Y+y)
		row := g.Pix[off : off+m.width]
		for x, v := range row {
			m.edge[y*m.width+x] = v > 0
		}
	}
	return m
}

// EdgeMaskFromImage converts any image to an EdgeMask through its gray
// luminance. Callers holding an *image.Gray should use NewEdgeMask.
func EdgeMaskFromImage(img image.Image) *EdgeMask {
	if g, ok := img.(*image.Gray); ok {
		return NewEdgeMask(g)
	}
	b := img.Bounds()
	m := &EdgeMask{
		width:  b.Dx(),
		height: b.Dy(),
		edge:   make([]bool, b.Dx()*b.Dy()),
	}
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			c := color.GrayModel.Convert(img.At(x+b.Min.X, y+b.Min.Y)).(color.Gray)
			m.edge[y*m.width+x] = c.Y > 0
		}
	}
	return m
}

// Width returns the mask width in pixels.
func (m *EdgeMask) Width() int { return m.width }

// Height returns the mask height in pixels.
func (m *EdgeMask) Height() int { return m.height }

// IsEdge reports whether (x, y) is an edge pixel. Out-of-range coordinates
// are never edges.
func (m *EdgeMask) IsEdge(x, y int) bool {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return false
	}
	return m.edge[y*m.width+x]
}

// Count returns the number of edge pixels.
func (m *EdgeMask) Count() int {
	n := 0
	for _, e := range m.edge {
		if e {
			n++
		}
	}
	return n
}

// Gray renders the mask as a 0/255 gray image.
func (m *EdgeMask) Gray() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, m.width, m.height))
	for i, e := range m.edge {
		if e {
			g.Pix[i] = 255
		}
	}
	return g
}
