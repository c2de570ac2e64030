package sampling

import (
	"context"
	"testing"

	"github.com/afalcongonzalez/chromaviews/internal/colorspace"
	"github.com/afalcongonzalez/chromaviews/internal/imaging"
	"github.com/afalcongonzalez/chromaviews/internal/palette"
)

// createQuadrantBuffer creates red, green, blue and white quadrants.
func createQuadrantBuffer(width, height int) *imaging.PixelBuffer {
	buf := imaging.NewPixelBuffer(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c colorspace.RGB
			switch {
			case x < width/2 && y < height/2:
				c = colorspace.RGB{R: 255}
			case x >= width/2 && y < height/2:
				c = colorspace.RGB{G: 255}
			case x < width/2:
				c = colorspace.RGB{B: 255}
			default:
				c = colorspace.RGB{R: 255, G: 255, B: 255}
			}
			buf.Pix[y*width+x] = c
		}
	}
	return buf
}

func extract(t *testing.T, buf *imaging.PixelBuffer, k int) *palette.Extraction {
	t.Helper()
	ext, err := palette.NewExtractor(nil, nil).Extract(context.Background(), buf, k)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	return ext
}

func entryFor(rgb colorspace.RGB, percent float64) palette.Entry {
	return palette.Entry{
		Hex:     rgb.Hex(),
		Name:    "test " + rgb.Hex(),
		Percent: percent,
		RGB:     rgb.Array(),
		Lab:     colorspace.RGBToLab(rgb).Array(),
	}
}

func checkBounds(t *testing.T, samples []Sample, width, height int) {
	t.Helper()
	for _, s := range samples {
		if s.X < 0 || s.X >= width || s.Y < 0 || s.Y >= height {
			t.Errorf("sample (%d,%d) outside %dx%d", s.X, s.Y, width, height)
		}
	}
}

func TestLocate_SolidImage(t *testing.T) {
	buf := imaging.NewPixelBuffer(30, 30)
	for i := range buf.Pix {
		buf.Pix[i] = colorspace.RGB{R: 10, G: 120, B: 200}
	}
	ext := extract(t, buf, 5)

	samples := NewLocator(nil).Locate(context.Background(), ext)

	if len(samples) != 3 {
		t.Fatalf("got %d samples, want 3 for 900 pixels", len(samples))
	}
	checkBounds(t, samples, 30, 30)
	for _, s := range samples {
		if s.Hex != ext.Palette[0].Hex || s.Name != ext.Palette[0].Name {
			t.Errorf("sample %+v does not copy the palette entry", s)
		}
	}
}

func TestLocate_SmallRegionSingleSample(t *testing.T) {
	buf := imaging.NewPixelBuffer(10, 10)
	for i := range buf.Pix {
		buf.Pix[i] = colorspace.RGB{R: 90, G: 90, B: 90}
	}
	ext := extract(t, buf, 3)

	samples := NewLocator(nil).Locate(context.Background(), ext)
	if len(samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(samples))
	}
	// Mean of 0..9 is 4.5, rounded half away from zero.
	if samples[0].X != 5 || samples[0].Y != 5 {
		t.Errorf("sample at (%d,%d), want (5,5)", samples[0].X, samples[0].Y)
	}
}

func TestLocate_Quadrants(t *testing.T) {
	ext := extract(t, createQuadrantBuffer(40, 40), 4)
	samples := NewLocator(nil).Locate(context.Background(), ext)

	checkBounds(t, samples, 40, 40)

	perHex := make(map[string]int)
	for _, s := range samples {
		perHex[s.Hex]++

		var inside bool
		switch s.Hex {
		case "#ff0000":
			inside = s.X < 20 && s.Y < 20
		case "#00ff00":
			inside = s.X >= 20 && s.Y < 20
		case "#0000ff":
			inside = s.X < 20 && s.Y >= 20
		case "#ffffff":
			inside = s.X >= 20 && s.Y >= 20
		}
		if !inside {
			t.Errorf("sample %s at (%d,%d) outside its quadrant", s.Hex, s.X, s.Y)
		}
	}

	if len(perHex) != 4 {
		t.Errorf("got samples for %d colors, want 4", len(perHex))
	}
	for hex, n := range perHex {
		if n < 1 || n > 3 {
			t.Errorf("%s has %d samples, want 1-3", hex, n)
		}
	}
}

func TestLocate_UnionsMergedClusters(t *testing.T) {
	red := colorspace.RGB{R: 200, G: 30, B: 30}
	nearRed := colorspace.RGB{R: 201, G: 31, B: 30}

	labels := make([]int, 100)
	for i := range labels {
		if i%10 >= 5 {
			labels[i] = 1
		}
	}
	ext := &palette.Extraction{
		Palette: []palette.Entry{entryFor(red, 50)},
		Original: []palette.ClusterEntry{
			{Entry: entryFor(red, 50), Cluster: 0},
			{Entry: entryFor(nearRed, 50), Cluster: 1},
		},
		Labels: labels,
		Width:  10,
		Height: 10,
	}

	samples := NewLocator(nil).Locate(context.Background(), ext)
	if len(samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(samples))
	}
	// Only the left half would put the mean at x=2.
	if samples[0].X != 5 {
		t.Errorf("sample x = %d, want 5 (mean over both clusters)", samples[0].X)
	}
}

func TestLocate_NoMatchingCluster(t *testing.T) {
	ext := &palette.Extraction{
		Palette: []palette.Entry{
			entryFor(colorspace.RGB{B: 255}, 100),
			entryFor(colorspace.RGB{G: 255}, 0),
		},
		Original: []palette.ClusterEntry{{Entry: entryFor(colorspace.RGB{B: 255}, 100), Cluster: 0}},
		Labels:   make([]int, 16),
		Width:    4,
		Height:   4,
	}

	samples := NewLocator(nil).Locate(context.Background(), ext)
	if len(samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(samples))
	}
	if samples[0].Hex != "#0000ff" {
		t.Errorf("unexpected sample %+v", samples[0])
	}
}

func TestLocate_LargeRegionIsStrided(t *testing.T) {
	buf := imaging.NewPixelBuffer(250, 200)
	for i := range buf.Pix {
		buf.Pix[i] = colorspace.RGB{R: 30, G: 160, B: 60}
	}
	ext := extract(t, buf, 3)

	samples := NewLocator(nil).Locate(context.Background(), ext)
	if len(samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(samples))
	}
	checkBounds(t, samples, 250, 200)
}

func TestLocate_CancelledFallsBack(t *testing.T) {
	ext := extract(t, createQuadrantBuffer(40, 40), 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	samples := NewLocator(nil).Locate(ctx, ext)

	if len(samples) != 12 {
		t.Fatalf("got %d samples, want 3 evenly spaced per color", len(samples))
	}
	checkBounds(t, samples, 40, 40)
}

func TestLocate_Deterministic(t *testing.T) {
	ext := extract(t, createQuadrantBuffer(60, 30), 4)
	l := NewLocator(nil)

	first := l.Locate(context.Background(), ext)
	second := l.Locate(context.Background(), ext)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("sample %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSampleCount(t *testing.T) {
	tests := []struct{ n, want int }{
		{1, 1}, {99, 1}, {150, 1}, {200, 2}, {299, 2}, {300, 3}, {100000, 3},
	}
	for _, tt := range tests {
		if got := sampleCount(tt.n); got != tt.want {
			t.Errorf("sampleCount(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestEvenlySpaced(t *testing.T) {
	positions := make([][2]int, 10)
	for i := range positions {
		positions[i] = [2]int{i, 0}
	}

	got := evenlySpaced(positions, 3)
	want := [][2]int{{0, 0}, {3, 0}, {6, 0}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pick %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
