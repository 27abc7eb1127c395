// Package imaging holds the raster plumbing around hex grid analysis:
// loading map images, turning color maps into edge masks, cutting square
// windows out of an image, and drawing lattice overlays for inspection.
//
// All operations work with standard Go image.Image types and use a
// coordinate system where (0,0) is at the top-left corner, X increases
// rightward, and Y increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, Min is inclusive and Max is exclusive
//
// # Edge Masks
//
// An edge mask is a single-channel image in which 255 marks a tile border
// pixel and 0 marks everything else. EdgeMask derives one from a color map;
// LoadEdgeMask accepts one produced elsewhere and binarizes it so any
// non-zero pixel counts as an edge.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Individual image operations
// are stateless and can be called concurrently on different images. Operations
// on the same image should be synchronized by the caller if the image is mutable.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Crop regions outside image bounds or empty
//   - Non-positive grid spacing
//   - File I/O errors during image loading, wrapped with ErrImageLoad
//   - Encoding errors during image output
//
// # Performance Considerations
//
// For repeated operations on the same image, use ImageCache to avoid redundant
// disk reads. The cache is bounded and evicts the least recently used image.
package imaging
