package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrImageLoad is wrapped by every error returned when an image file cannot
// be opened or decoded.
var ErrImageLoad = errors.New("image load failed")

// DefaultCacheSize is the number of decoded images an ImageCache keeps when
// NewImageCache is given a non-positive size.
const DefaultCacheSize = 16

// ImageCache provides thread-safe caching of loaded images to avoid redundant disk reads.
//
// The cache stores decoded image.Image objects keyed by their file path. Once an image
// is loaded, subsequent Load() calls for the same path return the cached copy without
// disk I/O.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// The cache is bounded: once it holds its configured number of images, loading
// another evicts the least recently used one. Evict() and Clear() release
// entries early.
//
// # Example Usage
//
//	cache := imaging.NewImageCache(0)
//	img, err := cache.Load("/path/to/map.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Use img...
//	cache.Evict("/path/to/map.png") // Optional: free memory
type ImageCache struct {
	images *lru.Cache[string, image.Image]
}

// NewImageCache creates an empty cache holding at most size images.
// A size of zero or less selects DefaultCacheSize.
func NewImageCache(size int) *ImageCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	images, err := lru.New[string, image.Image](size)
	if err != nil {
		// lru.New only fails for non-positive sizes.
		panic(fmt.Sprintf("imaging: lru cache: %v", err))
	}
	return &ImageCache{images: images}
}

// Load retrieves an image from the cache or loads it from disk if not cached.
//
// Parameters:
//   - path: Absolute or relative file path to the image. Supported formats are
//     PNG, JPEG, GIF, BMP, TIFF, and WebP.
//
// Returns:
//   - image.Image: The decoded image. JPEG and TIFF files are rotated
//     according to their EXIF orientation tag.
//   - error: Non-nil if the file cannot be opened or decoded. The error wraps
//     ErrImageLoad.
//
// The image is cached using the exact path string provided. Different paths to the
// same file (e.g., relative vs absolute) will result in separate cache entries.
func (c *ImageCache) Load(path string) (image.Image, error) {
	if img, ok := c.images.Get(path); ok {
		return img, nil
	}

	img, err := Open(path)
	if err != nil {
		return nil, err
	}

	c.images.Add(path, img)
	return img, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	return c.images.Len()
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.images.Purge()
}

// Evict removes a specific image from the cache by its path.
//
// If the path is not in the cache, this method does nothing.
// After eviction, the next Load() call for this path will read from disk.
func (c *ImageCache) Evict(path string) {
	c.images.Remove(path)
}

// Open decodes the image at path without caching it.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open image %s: %w", ErrImageLoad, path, err)
	}
	return img, nil
}

// Save encodes img in the format implied by the extension of path.
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image %s: %w", path, err)
	}
	return nil
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the detected image format, e.g. "png" or "tiff", or "unknown".
	// Detection is based on file extension, not file contents.
	Format string `json:"format"`

	// HasAlpha indicates whether the image has an alpha (transparency) channel.
	HasAlpha bool `json:"has_alpha"`

	// Grayscale is true for single-channel images, the usual edge mask layout.
	Grayscale bool `json:"grayscale"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through the cache and describes it.
//
// # Format Detection
//
// The format is determined by file extension:
//   - ".png" -> "png"
//   - ".jpg", ".jpeg" -> "jpeg"
//   - ".gif" -> "gif"
//   - ".bmp" -> "bmp"
//   - ".tif", ".tiff" -> "tiff"
//   - ".webp" -> "webp"
//   - Other extensions -> "unknown"
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	hasAlpha, grayscale := false, false
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
	case *image.Gray, *image.Gray16:
		grayscale = true
	}

	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        FormatFromPath(path),
		HasAlpha:      hasAlpha,
		Grayscale:     grayscale,
		FileSizeBytes: stat.Size(),
	}, nil
}

// FormatFromPath maps a file extension to a format name.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	case ".webp":
		return "webp"
	}
	return "unknown"
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of an image without additional metadata.
// The image is loaded into the cache if not already present.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &DimensionsResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
