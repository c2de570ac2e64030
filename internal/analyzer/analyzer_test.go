package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/afalcongonzalez/chromaviews/internal/colorspace"
	"github.com/afalcongonzalez/chromaviews/internal/imaging"
	"github.com/afalcongonzalez/chromaviews/internal/names"
	"github.com/afalcongonzalez/chromaviews/internal/palette"
	"github.com/afalcongonzalez/chromaviews/internal/sampling"
)

// createPatternImage creates an image with different colors in each quadrant
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.RGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

func newTestAnalyzer(t *testing.T, opts Options) *Analyzer {
	t.Helper()
	db, err := names.Load()
	if err != nil {
		t.Fatalf("names.Load failed: %v", err)
	}
	return New(db, nil, opts)
}

func TestAnalyzeBytes(t *testing.T) {
	a := newTestAnalyzer(t, Options{})

	res, err := a.AnalyzeBytes(context.Background(), encodePNG(t, createPatternImage(60, 40)), 4)
	if err != nil {
		t.Fatalf("AnalyzeBytes failed: %v", err)
	}

	if res.Width != 60 || res.Height != 40 {
		t.Errorf("dimensions: got %dx%d, want 60x40", res.Width, res.Height)
	}
	if len(res.Palette) != 4 {
		t.Fatalf("got %d colors, want 4", len(res.Palette))
	}

	wantNames := map[string]string{
		"#ff0000": "Red (red)",
		"#00ff00": "Lime (lime)",
		"#0000ff": "Blue (blue)",
		"#ffffff": "White (white)",
	}
	for _, p := range res.Palette {
		if want, ok := wantNames[p.Hex]; !ok || p.Name != want {
			t.Errorf("%s named %q, want %q", p.Hex, p.Name, want)
		}
	}

	if len(res.Samples) < 4 || len(res.Samples) > 12 {
		t.Errorf("got %d samples, want 4-12", len(res.Samples))
	}
	for _, s := range res.Samples {
		if s.X < 0 || s.X >= res.Width || s.Y < 0 || s.Y >= res.Height {
			t.Errorf("sample (%d,%d) out of bounds", s.X, s.Y)
		}
	}
}

func TestAnalyzeBytes_ResizesLargeImages(t *testing.T) {
	a := newTestAnalyzer(t, Options{Prepare: imaging.PrepareOptions{MaxDimension: 50, Enhance: true}})

	res, err := a.AnalyzeBytes(context.Background(), encodePNG(t, createPatternImage(200, 100)), 3)
	if err != nil {
		t.Fatalf("AnalyzeBytes failed: %v", err)
	}
	if res.Width != 50 || res.Height != 25 {
		t.Errorf("dimensions: got %dx%d, want 50x25", res.Width, res.Height)
	}
	if len(res.Palette) > 3 {
		t.Errorf("got %d colors for k=3", len(res.Palette))
	}
}

func TestAnalyzeBytes_Errors(t *testing.T) {
	a := newTestAnalyzer(t, DefaultOptions())
	valid := encodePNG(t, createPatternImage(10, 10))

	if _, err := a.AnalyzeBytes(context.Background(), []byte("nope"), 5); !errors.Is(err, imaging.ErrInvalidImage) {
		t.Errorf("corrupt bytes: error %v, want ErrInvalidImage", err)
	}
	if _, err := a.AnalyzeBytes(context.Background(), valid, 2); !errors.Is(err, palette.ErrClusterCount) {
		t.Errorf("k=2: error %v, want ErrClusterCount", err)
	}
	// k is checked before the bytes are looked at.
	if _, err := a.AnalyzeBytes(context.Background(), []byte("nope"), 40); !errors.Is(err, palette.ErrClusterCount) {
		t.Errorf("k=40 with corrupt bytes: error %v, want ErrClusterCount", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.AnalyzeBytes(ctx, valid, 5); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled: error %v, want context.Canceled", err)
	}
}

func TestAnalyzeBuffer_EmptyImage(t *testing.T) {
	a := newTestAnalyzer(t, DefaultOptions())
	_, err := a.AnalyzeBuffer(context.Background(), imaging.NewPixelBuffer(0, 0), 5)
	if !errors.Is(err, palette.ErrEmptyImage) {
		t.Errorf("error %v, want ErrEmptyImage", err)
	}
}

func TestResult_JSON(t *testing.T) {
	a := newTestAnalyzer(t, Options{})
	buf := imaging.NewPixelBuffer(8, 8)
	for i := range buf.Pix {
		buf.Pix[i] = colorspace.RGB{R: 70, G: 130, B: 180}
	}

	res, err := a.AnalyzeBuffer(context.Background(), buf, 3)
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(res)
	if err != nil {
		t.Fatal(err)
	}

	s := string(data)
	for _, want := range []string{
		`"width":8`, `"height":8`, `"hex":"#4682b4"`, `"name":"Blue (steel blue)"`,
		`"percent":100`, `"rgb":[70,130,180]`, `"lab":[`, `"samples":[{"x":4,"y":4`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON %s missing %s", s, want)
		}
	}
}

func TestResult_Markers(t *testing.T) {
	res := &Result{
		Palette: []palette.Entry{
			{Hex: "#ff0000", RGB: [3]int{255, 0, 0}},
			{Hex: "#0000ff", RGB: [3]int{0, 0, 255}},
		},
		Samples: nil,
	}
	if len(res.Markers()) != 0 {
		t.Error("no samples should give no markers")
	}

	res.Samples = append(res.Samples,
		sampling.Sample{X: 1, Y: 2, Hex: "#0000ff"},
		sampling.Sample{X: 3, Y: 4, Hex: "#ff0000"},
	)
	markers := res.Markers()
	if len(markers) != 2 {
		t.Fatalf("got %d markers, want 2", len(markers))
	}
	if markers[0].Color != (colorspace.RGB{B: 255}) || markers[0].Label != "1" {
		t.Errorf("marker 0: %+v", markers[0])
	}
	if markers[1].X != 3 || markers[1].Y != 4 || markers[1].Color != (colorspace.RGB{R: 255}) || markers[1].Label != "2" {
		t.Errorf("marker 1: %+v", markers[1])
	}
}

func TestName(t *testing.T) {
	a := newTestAnalyzer(t, DefaultOptions())

	m, err := a.Name("FF0000")
	if err != nil {
		t.Fatalf("Name failed: %v", err)
	}
	if m.Name != "red" || m.Primary != "Red" || m.DeltaE != 0 {
		t.Errorf("got %+v", m)
	}

	if _, err := a.Name("XYZ"); !errors.Is(err, colorspace.ErrInvalidHex) {
		t.Errorf("error %v, want ErrInvalidHex", err)
	}
}

func TestWith(t *testing.T) {
	a := newTestAnalyzer(t, DefaultOptions())
	b := a.With("request_id", "abc")

	if b == a {
		t.Fatal("With should return a copy")
	}
	if b.Options() != a.Options() {
		t.Error("With should keep options")
	}
}
