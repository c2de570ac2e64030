// Package palette extracts the dominant colors of an image.
//
// Pixels are grouped by exact color, clustered with seeded k-means, ranked by
// coverage, named through a names.Database and finally deduplicated so that
// no two entries are perceptually indistinguishable.
package palette

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/hashicorp/go-hclog"

	"github.com/afalcongonzalez/chromaviews/internal/cluster"
	"github.com/afalcongonzalez/chromaviews/internal/colorspace"
	"github.com/afalcongonzalez/chromaviews/internal/imaging"
	"github.com/afalcongonzalez/chromaviews/internal/names"
)

// Cluster count limits.
const (
	MinK     = 3
	MaxK     = 12
	DefaultK = 8
)

// UnknownName is the display name used when a color cannot be named.
const UnknownName = "unknown"

var (
	// ErrClusterCount is returned when k is outside [MinK, MaxK].
	ErrClusterCount = fmt.Errorf("cluster count must be between %d and %d", MinK, MaxK)

	// ErrEmptyImage is returned for a buffer with no pixels.
	ErrEmptyImage = errors.New("image has no pixels")
)

// Entry is one color of a palette.
type Entry struct {
	Hex     string     `json:"hex"`
	Name    string     `json:"name"`
	Percent float64    `json:"percent"`
	RGB     [3]int     `json:"rgb"`
	Lab     [3]float64 `json:"lab"`
}

// Color returns the entry's RGB value.
func (e Entry) Color() colorspace.RGB {
	return colorspace.RGB{R: uint8(e.RGB[0]), G: uint8(e.RGB[1]), B: uint8(e.RGB[2])}
}

// LabColor returns the entry's Lab value.
func (e Entry) LabColor() colorspace.Lab {
	return colorspace.Lab{L: e.Lab[0], A: e.Lab[1], B: e.Lab[2]}
}

// ClusterEntry is a pre-deduplication entry together with the id of the
// cluster it was built from.
type ClusterEntry struct {
	Entry
	Cluster int
}

// Extraction is the full output of Extract.
type Extraction struct {
	// Palette is deduplicated and sorted by Percent, descending.
	Palette []Entry
	// Original holds one entry per non-empty cluster, sorted by Percent.
	Original []ClusterEntry
	// Labels maps each pixel, row-major, to its cluster id.
	Labels []int
	Width  int
	Height int
}

// Extractor turns pixel buffers into palettes. It holds no per-request state
// and is safe for concurrent use.
type Extractor struct {
	names    *names.Database
	logger   hclog.Logger
	seed     int64
	restarts int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithSeed sets the k-means seed.
func WithSeed(seed int64) Option {
	return func(e *Extractor) { e.seed = seed }
}

// WithRestarts sets the number of k-means restarts.
func WithRestarts(n int) Option {
	return func(e *Extractor) { e.restarts = n }
}

// NewExtractor creates an Extractor. db may be nil, in which case every
// entry is named UnknownName.
func NewExtractor(db *names.Database, logger hclog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	e := &Extractor{
		names:    db,
		logger:   logger.Named("palette"),
		seed:     cluster.DefaultSeed,
		restarts: cluster.DefaultRestarts,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ValidateK reports whether k is an accepted cluster count.
func ValidateK(k int) error {
	if k < MinK || k > MaxK {
		return fmt.Errorf("%w: got %d", ErrClusterCount, k)
	}
	return nil
}

// Extract computes the palette of buf with at most k colors.
//
// Parameters:
//   - ctx: Cancels clustering between iterations.
//   - buf: The prepared pixels. Must not be empty.
//   - k: Requested cluster count, MinK to MaxK inclusive.
//
// Returns:
//   - *Extraction: The deduplicated palette sorted by coverage, plus the
//     pre-dedup clusters and a cluster label per pixel for sample placement.
//   - error: ErrClusterCount for an out-of-range k, ErrEmptyImage for an
//     empty buffer, or the context error.
//
// # Coverage
//
// Percentages are computed against every pixel of buf and sum to 100 before
// dedup. A merged entry keeps the percentage of the larger entry only, so
// after dedup the sum may be lower.
//
// # Small Images
//
// k is capped at the number of distinct colors in the image, so a solid
// image yields a single entry at 100%. Dedup may shorten the palette
// further; that is not an error.
func (e *Extractor) Extract(ctx context.Context, buf *imaging.PixelBuffer, k int) (*Extraction, error) {
	if err := ValidateK(k); err != nil {
		return nil, err
	}
	if buf.Empty() {
		return nil, ErrEmptyImage
	}

	hist := buf.Histogram()
	points := make([]cluster.Point, len(hist.Colors))
	weights := make([]float64, len(hist.Colors))
	for i, c := range hist.Colors {
		points[i] = cluster.Point{float64(c.R), float64(c.G), float64(c.B)}
		weights[i] = float64(hist.Counts[i])
	}

	res, err := cluster.KMeans(ctx, points, weights, cluster.Options{
		K:        min(k, len(points)),
		Restarts: e.restarts,
		Seed:     e.seed,
	})
	if err != nil {
		return nil, fmt.Errorf("clustering colors: %w", err)
	}

	labels := make([]int, len(hist.Index))
	for i, slot := range hist.Index {
		labels[i] = res.Labels[slot]
	}

	sizes := res.Sizes(weights)
	order := make([]int, 0, len(sizes))
	for j, size := range sizes {
		if size > 0 {
			order = append(order, j)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return sizes[order[a]] > sizes[order[b]]
	})

	total := float64(buf.Len())
	original := make([]ClusterEntry, 0, len(order))
	for _, j := range order {
		c := res.Centroids[j]
		rgb := colorspace.RGB{R: channel(c[0]), G: channel(c[1]), B: channel(c[2])}
		original = append(original, ClusterEntry{
			Entry:   e.entry(rgb, sizes[j]/total*100),
			Cluster: j,
		})
	}

	plain := make([]Entry, len(original))
	for i, ce := range original {
		plain[i] = ce.Entry
	}
	deduped := Deduplicate(plain, DuplicateThreshold)

	e.logger.Debug("extracted palette",
		"pixels", buf.Len(), "distinct", len(points), "k", k,
		"clusters", len(original), "palette", len(deduped),
		"iterations", res.Iterations, "inertia", res.Inertia)

	return &Extraction{
		Palette:  deduped,
		Original: original,
		Labels:   labels,
		Width:    buf.Width,
		Height:   buf.Height,
	}, nil
}

// entry builds a named palette entry for a centroid color.
func (e *Extractor) entry(rgb colorspace.RGB, percent float64) Entry {
	lab := colorspace.RGBToLab(rgb)
	return Entry{
		Hex:     rgb.Hex(),
		Name:    e.displayName(lab, rgb),
		Percent: percent,
		RGB:     rgb.Array(),
		Lab:     lab.Array(),
	}
}

func (e *Extractor) displayName(lab colorspace.Lab, rgb colorspace.RGB) string {
	if e.names == nil {
		return UnknownName
	}
	m, err := e.names.FindNearestLab(lab)
	if err != nil {
		e.logger.Warn("failed to find color name", "hex", rgb.Hex(), "error", err)
		return UnknownName
	}
	return m.Display()
}

// channel truncates a centroid component to 8 bits.
func channel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
