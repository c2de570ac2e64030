// Package imaging decodes uploaded images and prepares them for palette
// extraction.
//
// The package covers everything between raw bytes and a flat pixel buffer:
// decoding, EXIF orientation, downscaling, color enhancement, and rendering
// annotated overlays back out as PNG.
//
// # Pipeline
//
//	data ──Decode──▶ image.Image ──Prepare──▶ *PixelBuffer
//
// Decode accepts JPEG, PNG, GIF, BMP, TIFF and WebP. Prepare drops the alpha
// channel, fits the image inside MaxDimension on its longest side using a
// Lanczos filter, and optionally boosts brightness, contrast and saturation
// so that washed-out photos cluster into distinct colors.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner.
// PixelBuffer stores pixels row-major: index = y*Width + x.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. A PixelBuffer is owned by one
// request and must not be modified while shared.
//
// # Error Handling
//
// Bytes that cannot be decoded produce an error wrapping ErrInvalidImage.
// File system errors from Open and ImageCache are returned as-is, wrapped
// with context.
package imaging
