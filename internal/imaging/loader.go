package imaging

import (
	"fmt"
	"image"
	"os"
	"sync"
)

// ImageCache provides thread-safe caching of decoded images and prepared
// pixel buffers, keyed by file path.
//
// The MCP tools typically run several operations against the same file
// (analyze, then overlay); the cache avoids decoding and preparing it twice.
//
// Entries remain in memory until removed via Evict() or Clear().
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	buf, err := cache.Prepared("/path/to/photo.jpg", imaging.DefaultPrepareOptions())
//	if err != nil {
//	    return err
//	}
//	cache.Evict("/path/to/photo.jpg") // Optional: free memory
type ImageCache struct {
	mu       sync.RWMutex
	images   map[string]cachedImage
	prepared map[preparedKey]*PixelBuffer
}

type cachedImage struct {
	img    image.Image
	format string
}

type preparedKey struct {
	path string
	opts PrepareOptions
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images:   make(map[string]cachedImage),
		prepared: make(map[preparedKey]*PixelBuffer),
	}
}

// Load retrieves a decoded image from the cache or reads it from disk.
//
// The image is cached under the exact path string provided; different
// spellings of the same file get separate entries.
func (c *ImageCache) Load(path string) (image.Image, error) {
	entry, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return entry.img, nil
}

func (c *ImageCache) load(path string) (cachedImage, error) {
	c.mu.RLock()
	if entry, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return entry, nil
	}
	c.mu.RUnlock()

	img, format, err := Open(path)
	if err != nil {
		return cachedImage{}, err
	}

	entry := cachedImage{img: img, format: format}
	c.mu.Lock()
	c.images[path] = entry
	c.mu.Unlock()

	return entry, nil
}

// Prepared returns the pixel buffer for path under opts, preparing and
// caching it on first use. Callers must not modify the returned buffer.
func (c *ImageCache) Prepared(path string, opts PrepareOptions) (*PixelBuffer, error) {
	key := preparedKey{path: path, opts: opts}

	c.mu.RLock()
	if buf, ok := c.prepared[key]; ok {
		c.mu.RUnlock()
		return buf, nil
	}
	c.mu.RUnlock()

	img, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	buf := Prepare(img, opts)

	c.mu.Lock()
	c.prepared[key] = buf
	c.mu.Unlock()

	return buf, nil
}

// Len returns the number of decoded images held.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all entries from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]cachedImage)
	c.prepared = make(map[preparedKey]*PixelBuffer)
	c.mu.Unlock()
}

// Evict removes the decoded image and every prepared buffer for path.
// If the path is not cached, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	for key := range c.prepared {
		if key.path == path {
			delete(c.prepared, key)
		}
	}
	c.mu.Unlock()
}

// ImageInfo contains metadata about an image file.
type ImageInfo struct {
	// Width is the image width in pixels, after EXIF orientation.
	Width int `json:"width"`

	// Height is the image height in pixels, after EXIF orientation.
	Height int `json:"height"`

	// Format is the format reported by the decoder, e.g. "png" or "jpeg".
	Format string `json:"format"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`

	// PreparedWidth and PreparedHeight are the dimensions palette extraction
	// works on once the image is fitted inside the maximum dimension.
	PreparedWidth  int `json:"prepared_width"`
	PreparedHeight int `json:"prepared_height"`
}

// LoadImageInfo loads an image through the cache and describes it.
//
// maxDimension is the limit used to report the prepared size; zero or
// negative reports the original size.
func LoadImageInfo(cache *ImageCache, path string, maxDimension int) (*ImageInfo, error) {
	entry, err := cache.load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	b := entry.img.Bounds()
	pw, ph := FittedSize(b.Dx(), b.Dy(), maxDimension)

	return &ImageInfo{
		Width:          b.Dx(),
		Height:         b.Dy(),
		Format:         entry.format,
		FileSizeBytes:  stat.Size(),
		PreparedWidth:  pw,
		PreparedHeight: ph,
	}, nil
}

// FittedSize returns the size of a width×height image fitted inside a
// maxDimension square, truncating the short side the same way imaging.Fit
// does. Images that already fit are returned unchanged.
func FittedSize(width, height, maxDimension int) (int, int) {
	if maxDimension <= 0 || max(width, height) <= maxDimension || width <= 0 || height <= 0 {
		return width, height
	}

	aspect := float64(width) / float64(height)
	if aspect > 1 {
		return maxDimension, max(int(float64(maxDimension)/aspect), 1)
	}
	return max(int(float64(maxDimension)*aspect), 1), maxDimension
}
