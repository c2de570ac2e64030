package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/afalcongonzalez/chromaviews/internal/colorspace"
)

// PixelBuffer is an opaque RGB image stored row-major.
//
// Pix has exactly Width*Height entries; the pixel at (x, y) is
// Pix[y*Width+x].
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []colorspace.RGB
}

// NewPixelBuffer allocates a black buffer of the given size.
func NewPixelBuffer(width, height int) *PixelBuffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]colorspace.RGB, width*height),
	}
}

// FromImage copies img into a PixelBuffer.
//
// The alpha channel is discarded: each pixel keeps its straight
// (non-premultiplied) color, the way an RGBA-to-RGB conversion drops alpha.
func FromImage(img image.Image) *PixelBuffer {
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	buf := NewPixelBuffer(b.Dx(), b.Dy())

	for y := 0; y < buf.Height; y++ {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := 0; x < buf.Width; x++ {
			i := x * 4
			buf.Pix[y*buf.Width+x] = colorspace.RGB{R: row[i], G: row[i+1], B: row[i+2]}
		}
	}
	return buf
}

// Len returns the number of pixels.
func (b *PixelBuffer) Len() int {
	return len(b.Pix)
}

// Empty reports whether the buffer has no pixels.
func (b *PixelBuffer) Empty() bool {
	return b == nil || b.Width <= 0 || b.Height <= 0 || len(b.Pix) == 0
}

// At returns the color at (x, y).
func (b *PixelBuffer) At(x, y int) (colorspace.RGB, error) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return colorspace.RGB{}, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}
	return b.Pix[y*b.Width+x], nil
}

// ToImage returns the buffer as a fully opaque NRGBA image.
func (b *PixelBuffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for i, c := range b.Pix {
		o := i * 4
		img.Pix[o] = c.R
		img.Pix[o+1] = c.G
		img.Pix[o+2] = c.B
		img.Pix[o+3] = 0xff
	}
	return img
}

// Histogram groups the buffer's pixels by exact color.
//
// Colors holds each distinct color in first-seen order and Counts the number
// of pixels with that color. Index maps every pixel to its position in
// Colors.
type Histogram struct {
	Colors []colorspace.RGB
	Counts []int
	Index  []int
}

// Histogram computes the distinct colors of the buffer.
func (b *PixelBuffer) Histogram() *Histogram {
	h := &Histogram{Index: make([]int, len(b.Pix))}
	slots := make(map[colorspace.RGB]int)

	for i, c := range b.Pix {
		slot, ok := slots[c]
		if !ok {
			slot = len(h.Colors)
			slots[c] = slot
			h.Colors = append(h.Colors, c)
			h.Counts = append(h.Counts, 0)
		}
		h.Counts[slot]++
		h.Index[i] = slot
	}
	return h
}
