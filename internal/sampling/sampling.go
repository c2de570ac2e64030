// Package sampling places representative pixel coordinates on an image for
// each palette color, for use as UI markers.
package sampling

import (
	"context"
	"math"

	"github.com/hashicorp/go-hclog"

	"github.com/afalcongonzalez/chromaviews/internal/cluster"
	"github.com/afalcongonzalez/chromaviews/internal/colorspace"
	"github.com/afalcongonzalez/chromaviews/internal/palette"
)

const (
	// Regions smaller than this get a single sample at their mean position.
	smallRegion = 200
	// One sample per this many pixels, between 1 and maxSamples.
	pixelsPerSample = 100
	maxSamples      = 3
	// Spatial clustering runs on at most this many positions.
	maxSpatialPoints = 20000
)

// Sample is a pixel location showing one palette color. Hex and Name are
// copies of the palette entry's values.
type Sample struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Hex  string `json:"hex"`
	Name string `json:"name"`
}

// Locator finds sample points. It is stateless and safe for concurrent use.
type Locator struct {
	logger hclog.Logger
	seed   int64
}

// NewLocator creates a Locator. A nil logger discards output.
func NewLocator(logger hclog.Logger) *Locator {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Locator{
		logger: logger.Named("sampling"),
		seed:   cluster.DefaultSeed,
	}
}

// Locate returns between one and three samples for every palette entry that
// covers at least one pixel, in palette order.
//
// Parameters:
//   - ctx: Cancels spatial clustering; regions then fall back to evenly
//     spaced picks.
//   - ext: The output of palette.Extractor.Extract.
//
// Returns:
//   - []Sample: Coordinates within the prepared image, clamped to its bounds.
//
// # Placement
//
// The pixels of an entry are those of every original cluster within the
// dedup threshold of it, so clusters merged during dedup still contribute.
// Regions under 200 pixels get one sample at their mean position. Larger
// regions get one sample per 100 pixels, at most three, placed at the
// centers of a k-means run over the pixel positions.
func (l *Locator) Locate(ctx context.Context, ext *palette.Extraction) []Sample {
	var samples []Sample

	for _, entry := range ext.Palette {
		positions := l.region(ext, entry)
		if len(positions) == 0 {
			continue
		}

		for _, p := range l.points(ctx, positions) {
			samples = append(samples, Sample{
				X:    clamp(p[0], 0, ext.Width-1),
				Y:    clamp(p[1], 0, ext.Height-1),
				Hex:  entry.Hex,
				Name: entry.Name,
			})
		}
	}

	return samples
}

// region returns the (x, y) positions, row-major, of every pixel that
// belongs to entry.
func (l *Locator) region(ext *palette.Extraction, entry palette.Entry) [][2]int {
	members := make(map[int]bool)
	lab := entry.LabColor()
	for _, oe := range ext.Original {
		if colorspace.DeltaE(lab, oe.LabColor()) < palette.DuplicateThreshold {
			members[oe.Cluster] = true
		}
	}
	if len(members) == 0 {
		return nil
	}

	var positions [][2]int
	for i, label := range ext.Labels {
		if members[label] {
			positions = append(positions, [2]int{i % ext.Width, i / ext.Width})
		}
	}
	return positions
}

// points picks the sample positions for one region.
func (l *Locator) points(ctx context.Context, positions [][2]int) [][2]int {
	n := len(positions)
	if n < smallRegion {
		return [][2]int{meanPosition(positions)}
	}

	count := sampleCount(n)
	centers, err := l.spatialCenters(ctx, positions, count)
	if err != nil {
		l.logger.Warn("spatial clustering failed, using evenly spaced samples", "pixels", n, "error", err)
		return evenlySpaced(positions, count)
	}
	return centers
}

func (l *Locator) spatialCenters(ctx context.Context, positions [][2]int, count int) ([][2]int, error) {
	step := (len(positions) + maxSpatialPoints - 1) / maxSpatialPoints
	points := make([]cluster.Point, 0, len(positions)/step+1)
	for i := 0; i < len(positions); i += step {
		points = append(points, cluster.Point{float64(positions[i][0]), float64(positions[i][1])})
	}

	res, err := cluster.KMeans(ctx, points, nil, cluster.Options{K: count, Seed: l.seed})
	if err != nil {
		return nil, err
	}

	centers := make([][2]int, len(res.Centroids))
	for i, c := range res.Centroids {
		centers[i] = [2]int{int(math.Round(c[0])), int(math.Round(c[1]))}
	}
	return centers, nil
}

// sampleCount is n/100 clamped to [1, 3].
func sampleCount(n int) int {
	return clamp(n/pixelsPerSample, 1, maxSamples)
}

func meanPosition(positions [][2]int) [2]int {
	var sx, sy float64
	for _, p := range positions {
		sx += float64(p[0])
		sy += float64(p[1])
	}
	n := float64(len(positions))
	return [2]int{int(math.Round(sx / n)), int(math.Round(sy / n))}
}

// evenlySpaced picks count positions with a fixed stride through the list.
func evenlySpaced(positions [][2]int, count int) [][2]int {
	step := len(positions) / count
	out := make([][2]int, 0, count)
	for i := 0; i < count; i++ {
		if idx := i * step; idx < len(positions) {
			out = append(out, positions[idx])
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
