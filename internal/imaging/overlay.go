package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/disintegration/imaging"

	"github.com/afalcongonzalez/chromaviews/internal/colorspace"
)

// DefaultMarkerRadius is the outer ring radius used when none is given.
const DefaultMarkerRadius = 12

// ringWidth is the thickness of the colored part of a marker ring.
const ringWidth = 3.0

// Marker is a point to highlight on an overlay.
type Marker struct {
	X     int
	Y     int
	Color colorspace.RGB
	// Label is drawn beside the ring. Only digits are rendered.
	Label string
}

// OverlayResult contains an annotated image encoded for transport.
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Markers     int    `json:"markers"`
}

// Overlay draws a ring for every marker on a copy of buf.
//
// Each ring is filled with the marker's color and outlined in black or
// white, whichever contrasts with that color. Markers outside the buffer are
// clipped.
func Overlay(buf *PixelBuffer, markers []Marker, radius int) *image.NRGBA {
	if radius <= 0 {
		radius = DefaultMarkerRadius
	}
	img := buf.ToImage()

	for _, m := range markers {
		fill := color.NRGBA{R: m.Color.R, G: m.Color.G, B: m.Color.B, A: 0xff}
		outline := contrastColor(m.Color)
		drawRing(img, m.X, m.Y, float64(radius), fill, outline)

		if m.Label != "" {
			drawLabel(img, m.X+radius+2, m.Y-radius, m.Label, outline, fill)
		}
	}
	return img
}

// EncodePNGBase64 encodes img as PNG and wraps it for JSON transports.
func EncodePNGBase64(img image.Image, markers int) (*OverlayResult, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	b := img.Bounds()
	return &OverlayResult{
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Markers:     markers,
	}, nil
}

// SaveImage writes img to path; the format follows the file extension.
func SaveImage(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// MarkerLabel numbers markers from 1.
func MarkerLabel(i int) string {
	return strconv.Itoa(i + 1)
}

// contrastColor returns black for light colors and white for dark ones.
func contrastColor(c colorspace.RGB) color.NRGBA {
	if colorspace.RGBToLab(c).L > 55 {
		return color.NRGBA{A: 0xff}
	}
	return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
}

// drawRing paints a ring of ringWidth inside radius, with a one pixel
// outline on both edges.
func drawRing(img *image.NRGBA, cx, cy int, radius float64, fill, outline color.NRGBA) {
	bounds := img.Bounds()
	outer := radius + 1
	inner := radius - ringWidth

	r := int(math.Ceil(outer))
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			px, py := cx+dx, cy+dy
			if px < bounds.Min.X || px >= bounds.Max.X || py < bounds.Min.Y || py >= bounds.Max.Y {
				continue
			}
			d := math.Hypot(float64(dx), float64(dy))
			switch {
			case d > outer:
			case d > radius:
				img.SetNRGBA(px, py, outline)
			case d >= inner:
				img.SetNRGBA(px, py, fill)
			case d >= inner-1:
				img.SetNRGBA(px, py, outline)
			}
		}
	}
}

// drawLabel draws text with a simple 3x5 pixel font over a background box.
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
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
	}

	bounds := img.Bounds()
	inBounds := func(px, py int) bool {
		return px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y
	}

	const charWidth = 4
	labelWidth := len(text) * charWidth
	const labelHeight = 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			if inBounds(x+dx, y+dy) {
				img.SetNRGBA(x+dx, y+dy, bg)
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
				if pixel == '1' && inBounds(cx+col, y+row+1) {
					img.SetNRGBA(cx+col, y+row+1, fg)
				}
			}
		}
		cx += charWidth
	}
}
