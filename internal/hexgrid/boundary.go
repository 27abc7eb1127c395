package hexgrid

import (
	"errors"
	"fmt"
)

// ErrBoundaryNotFound is returned when the edge mask holds no edge pixel.
var ErrBoundaryNotFound = errors.New("no edge pixels found in mask")

// Direction names the side a boundary profile is seen from.
type Direction int

const (
	FromTop Direction = iota
	FromBottom
	FromLeft
	FromRight
)

// Directions lists the four directions in profile order.
var Directions = [4]Direction{FromTop, FromBottom, FromLeft, FromRight}

func (d Direction) String() string {
	switch d {
	case FromTop:
		return "from_top"
	case FromBottom:
		return "from_bottom"
	case FromLeft:
		return "from_left"
	case FromRight:
		return "from_right"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// MarshalText lets Direction key JSON objects.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses the names produced by String.
func (d *Direction) UnmarshalText(text []byte) error {
	for _, candidate := range Directions {
		if candidate.String() == string(text) {
			*d = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown direction %q", text)
}

// Profiles holds the four directional boundary profiles of a mask.
//
// FromTop and FromBottom have one value per column, FromLeft and FromRight
// one value per row. Each value is the index of the first edge pixel met when
// scanning from that side, or 0 when the line holds no edge.
type Profiles struct {
	FromTop    []float64
	FromBottom []float64
	FromLeft   []float64
	FromRight  []float64
}

// Get returns the profile for d.
func (p Profiles) Get(d Direction) []float64 {
	switch d {
	case FromTop:
		return p.FromTop
	case FromBottom:
		return p.FromBottom
	case FromLeft:
		return p.FromLeft
	case FromRight:
		return p.FromRight
	}
	return nil
}

// Box is the outer bounding box of all edges, inclusive on every side.
type Box struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
	Right  int `json:"right"`
}

// Width is Right - Left.
func (b Box) Width() int { return b.Right - b.Left }

// Height is Bottom - Top.
func (b Box) Height() int { return b.Bottom - b.Top }

// ProjectBoundaries computes the four directional profiles of mask and the
// outer box they enclose.
//
// The box extremes are taken over lines that contain at least one edge pixel;
// empty lines carry 0 in their profile but never pull the box toward the
// image border.
func ProjectBoundaries(mask *EdgeMask) (Profiles, Box, error) {
	w, h := mask.Width(), mask.Height()

	colTop := filled(w, -1)
	colBottom := filled(w, -1)
	rowLeft := filled(h, -1)
	rowRight := filled(h, -1)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !mask.IsEdge(x, y) {
				continue
			}
			if colTop[x] < 0 {
				colTop[x] = y
			}
			colBottom[x] = y
			if rowLeft[y] < 0 {
				rowLeft[y] = x
			}
			rowRight[y] = x
		}
	}

	box := Box{Top: h, Bottom: -1, Left: w, Right: -1}
	for x := 0; x < w; x++ {
		if colTop[x] < 0 {
			continue
		}
		box.Top = min(box.Top, colTop[x])
		box.Bottom = max(box.Bottom, colBottom[x])
	}
	for y := 0; y < h; y++ {
		if rowLeft[y] < 0 {
			continue
		}
		box.Left = min(box.Left, rowLeft[y])
		box.Right = max(box.Right, rowRight[y])
	}
	if box.Bottom < 0 || box.Right < 0 {
		return Profiles{}, Box{}, ErrBoundaryNotFound
	}

	return Profiles{
		FromTop:    asProfile(colTop),
		FromBottom: asProfile(colBottom),
		FromLeft:   asProfile(rowLeft),
		FromRight:  asProfile(rowRight),
	}, box, nil
}

func filled(n, v int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = v
	}
	return s
}

// asProfile maps "no edge" (-1) to 0.
func asProfile(idx []int) []float64 {
	p := make([]float64, len(idx))
	for i, v := range idx {
		if v > 0 {
			p[i] = float64(v)
		}
	}
	return p
}
