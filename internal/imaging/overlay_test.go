package imaging

import (
	"bytes"
	"encoding/base64"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/afalcongonzalez/chromaviews/internal/colorspace"
)

func TestOverlay_DrawsRing(t *testing.T) {
	buf := FromImage(createInMemoryImage(60, 60, color.RGBA{128, 128, 128, 255}))
	red := colorspace.RGB{R: 255}

	img := Overlay(buf, []Marker{{X: 30, Y: 30, Color: red}}, 10)

	if got := img.NRGBAAt(40, 30); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("ring pixel: got %v, want red", got)
	}
	// Red is dark enough to get a white outline.
	if got := img.NRGBAAt(41, 30); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("outline pixel: got %v, want white", got)
	}
	if got := img.NRGBAAt(30, 30); got != (color.NRGBA{128, 128, 128, 255}) {
		t.Errorf("center should be untouched, got %v", got)
	}
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{128, 128, 128, 255}) {
		t.Errorf("far pixel should be untouched, got %v", got)
	}

	// The source buffer is not modified.
	if c, _ := buf.At(40, 30); c != (colorspace.RGB{R: 128, G: 128, B: 128}) {
		t.Errorf("source buffer modified: %v", c)
	}
}

func TestOverlay_LightColorGetsDarkOutline(t *testing.T) {
	buf := FromImage(createInMemoryImage(40, 40, color.RGBA{0, 0, 255, 255}))
	yellow := colorspace.RGB{R: 255, G: 255}

	img := Overlay(buf, []Marker{{X: 20, Y: 20, Color: yellow}}, 8)

	if got := img.NRGBAAt(29, 20); got != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("outline pixel: got %v, want black", got)
	}
}

func TestOverlay_ClipsAtEdges(t *testing.T) {
	buf := FromImage(createInMemoryImage(10, 10, color.White))
	markers := []Marker{
		{X: 0, Y: 0, Color: colorspace.RGB{B: 200}, Label: "1"},
		{X: 9, Y: 9, Color: colorspace.RGB{G: 200}, Label: "12"},
		{X: -50, Y: 500, Color: colorspace.RGB{R: 200}},
	}

	img := Overlay(buf, markers, 0)
	if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 10 {
		t.Errorf("bounds changed: %v", img.Bounds())
	}
}

func TestEncodePNGBase64(t *testing.T) {
	buf := FromImage(createPatternImage(32, 16))
	img := Overlay(buf, []Marker{{X: 8, Y: 8, Color: colorspace.RGB{R: 255}, Label: MarkerLabel(0)}}, 5)

	result, err := EncodePNGBase64(img, 1)
	if err != nil {
		t.Fatalf("EncodePNGBase64 failed: %v", err)
	}

	if result.Width != 32 || result.Height != 16 {
		t.Errorf("dimensions: got %dx%d, want 32x16", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}
	if result.Markers != 1 {
		t.Errorf("Markers: got %d, want 1", result.Markers)
	}

	data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	if decoded.Bounds().Dx() != 32 {
		t.Errorf("decoded width: got %d, want 32", decoded.Bounds().Dx())
	}
}

func TestSaveImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.png")
	img := Overlay(FromImage(createPatternImage(12, 12)), nil, 4)

	if err := SaveImage(img, path); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	back, format, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if format != "png" || back.Bounds().Dx() != 12 {
		t.Errorf("got %s %v", format, back.Bounds())
	}

	if err := SaveImage(img, filepath.Join(t.TempDir(), "overlay.unknownext")); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestMarkerLabel(t *testing.T) {
	if MarkerLabel(0) != "1" || MarkerLabel(9) != "10" {
		t.Errorf("unexpected labels %q %q", MarkerLabel(0), MarkerLabel(9))
	}
}
