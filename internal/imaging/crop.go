package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
)

// CenteredWindow returns the side x side square whose top-left corner is
// (floor(cx - side/2), floor(cy - side/2)), clamped to bounds. The result is
// empty when the square does not overlap bounds.
func CenteredWindow(cx, cy float64, side int, bounds image.Rectangle) image.Rectangle {
	half := float64(side / 2)
	x0 := int(math.Floor(cx - half))
	y0 := int(math.Floor(cy - half))
	return image.Rect(x0, y0, x0+side, y0+side).Intersect(bounds)
}

// CropWindow copies rect out of img. The returned image has its origin at
// (0, 0).
func CropWindow(img image.Image, rect image.Rectangle) (*image.NRGBA, error) {
	bounds := img.Bounds()
	if !rect.In(bounds) {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if rect.Empty() {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}
	return imaging.Crop(img, rect), nil
}

// EncodedImage is an image encoded as base64 PNG.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes img as base64 PNG, resized by scale when scale is
// positive and not 1.
func EncodePNG(img image.Image, scale float64) (*EncodedImage, error) {
	if scale != 1.0 && scale > 0 {
		newWidth := max(1, int(float64(img.Bounds().Dx())*scale))
		newHeight := max(1, int(float64(img.Bounds().Dy())*scale))
		img = imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
