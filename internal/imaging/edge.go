package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// EdgeOptions tunes EdgeMask.
type EdgeOptions struct {
	// BlurRadius is the Gaussian blur radius applied before the gradient.
	// Zero skips blurring.
	BlurRadius float64 `yaml:"blur_radius" json:"blur_radius"`

	// Threshold is the gradient magnitude (0-255) at or above which a pixel
	// becomes an edge.
	Threshold uint8 `yaml:"threshold" json:"threshold"`
}

// DefaultEdgeOptions suits flat-shaded hex maps with dark tile borders.
func DefaultEdgeOptions() EdgeOptions {
	return EdgeOptions{BlurRadius: 1.0, Threshold: 64}
}

// EdgeMask turns a color map into a binary edge mask: white (255) where a
// tile border runs, black (0) elsewhere.
//
// # Algorithm
//
//  1. Grayscale conversion
//  2. Gaussian blur with opts.BlurRadius to suppress texture inside tiles
//  3. Sobel gradient magnitude of the image and of its negative, merged
//     with a lighten blend so both edge polarities survive
//  4. Threshold at opts.Threshold
//
// Transparent areas are treated as black. A threshold of zero would mark
// every pixel and is raised to one.
func EdgeMask(img image.Image, opts EdgeOptions) *image.Gray {
	var src image.Image = effect.Grayscale(flatten(img))
	if opts.BlurRadius > 0 {
		src = blur.Gaussian(src, opts.BlurRadius)
	}
	gradient := blend.Lighten(effect.Sobel(src), effect.Sobel(effect.Invert(src)))
	return segment.Threshold(gradient, max(opts.Threshold, 1))
}

// BinarizeMask converts any image into a 0/255 mask where every pixel with
// a non-zero color channel becomes 255, so 0/1 masks keep their edges.
// Transparent pixels become 0.
func BinarizeMask(img image.Image) *image.Gray {
	src := flatten(img)
	b := src.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))

	if g, ok := src.(*image.Gray); ok {
		for y := 0; y < b.Dy(); y++ {
			off := g.PixOffset(b.Min.X, b.Min.Y+y)
			row := g.Pix[off : off+b.Dx()]
			for x := 0; x < b.Dx(); x++ {
				if row[x] > 0 {
					out.Pix[y*out.Stride+x] = math.MaxUint8
				}
			}
		}
		return out
	}

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if r|g|bl > 0 {
				out.Pix[y*out.Stride+x] = math.MaxUint8
			}
		}
	}
	return out
}

// flatten composites img over opaque black so fully transparent pixels
// carry no color.
func flatten(img image.Image) image.Image {
	switch img.(type) {
	case *image.Gray, *image.Gray16, *image.YCbCr:
		return img
	}
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.Black)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

// LoadEdgeMask loads a pre-computed edge mask from disk through the cache and
// binarizes it.
func LoadEdgeMask(cache *ImageCache, path string) (*image.Gray, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	if g, ok := img.(*image.Gray); ok && isBinary(g) {
		return g, nil
	}
	return BinarizeMask(img), nil
}

func isBinary(g *image.Gray) bool {
	for _, v := range g.Pix {
		if v != 0 && v != math.MaxUint8 {
			return false
		}
	}
	return true
}

// EdgeDetectResult contains an edge mask encoded as base64 PNG.
type EdgeDetectResult struct {
	// Width of the output image in pixels (same as input).
	Width int `json:"width"`

	// Height of the output image in pixels (same as input).
	Height int `json:"height"`

	// EdgePixels is the number of white pixels in the mask.
	EdgePixels int `json:"edge_pixels"`

	// ImageBase64 is the mask encoded as base64 PNG.
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png".
	MimeType string `json:"mime_type"`
}

// EncodeEdgeMask packages a mask for transport.
func EncodeEdgeMask(mask *image.Gray) (*EdgeDetectResult, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, mask); err != nil {
		return nil, fmt.Errorf("failed to encode edge image: %w", err)
	}

	edges := 0
	for _, v := range mask.Pix {
		if v > 0 {
			edges++
		}
	}

	bounds := mask.Bounds()
	return &EdgeDetectResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		EdgePixels:  edges,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
