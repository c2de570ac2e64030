// Package analyzer runs the full palette pipeline on one image: decode,
// prepare, extract, name and place samples.
package analyzer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/afalcongonzalez/chromaviews/internal/imaging"
	"github.com/afalcongonzalez/chromaviews/internal/names"
	"github.com/afalcongonzalez/chromaviews/internal/palette"
	"github.com/afalcongonzalez/chromaviews/internal/sampling"
)

// Result is the outcome of analyzing one image. Width and Height describe
// the prepared image that sample coordinates refer to.
type Result struct {
	Width   int               `json:"width"`
	Height  int               `json:"height"`
	Palette []palette.Entry   `json:"palette"`
	Samples []sampling.Sample `json:"samples"`
}

// Markers converts the samples into overlay markers, numbered in order.
func (r *Result) Markers() []imaging.Marker {
	markers := make([]imaging.Marker, len(r.Samples))
	for i, s := range r.Samples {
		m := imaging.Marker{X: s.X, Y: s.Y, Label: imaging.MarkerLabel(i)}
		for _, p := range r.Palette {
			if p.Hex == s.Hex {
				m.Color = p.Color()
				break
			}
		}
		markers[i] = m
	}
	return markers
}

// Options configures an Analyzer.
type Options struct {
	Prepare imaging.PrepareOptions
}

// DefaultOptions returns the options used by the HTTP service.
func DefaultOptions() Options {
	return Options{Prepare: imaging.DefaultPrepareOptions()}
}

// Analyzer is safe for concurrent use; the only shared state is the
// read-only names database.
type Analyzer struct {
	names     *names.Database
	extractor *palette.Extractor
	locator   *sampling.Locator
	logger    hclog.Logger
	opts      Options
}

// New creates an Analyzer backed by db.
func New(db *names.Database, logger hclog.Logger, opts Options) *Analyzer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("analyzer")
	return &Analyzer{
		names:     db,
		extractor: palette.NewExtractor(db, logger),
		locator:   sampling.NewLocator(logger),
		logger:    logger,
		opts:      opts,
	}
}

// With returns a copy of the Analyzer whose log lines carry args.
func (a *Analyzer) With(args ...interface{}) *Analyzer {
	c := *a
	c.logger = a.logger.With(args...)
	return &c
}

// Options returns the options the Analyzer was built with.
func (a *Analyzer) Options() Options {
	return a.opts
}

// AnalyzeBytes decodes an encoded image and analyzes it with k clusters.
//
// k is checked before decoding. Decode failures wrap imaging.ErrInvalidImage.
func (a *Analyzer) AnalyzeBytes(ctx context.Context, data []byte, k int) (*Result, error) {
	if err := palette.ValidateK(k); err != nil {
		return nil, err
	}

	img, format, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("decoded image", "format", format, "bytes", len(data),
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	return a.AnalyzeImage(ctx, img, k)
}

// AnalyzeImage prepares a decoded image and analyzes it.
func (a *Analyzer) AnalyzeImage(ctx context.Context, img image.Image, k int) (*Result, error) {
	if err := palette.ValidateK(k); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	buf := imaging.Prepare(img, a.opts.Prepare)
	a.logger.Debug("prepared image", "width", buf.Width, "height", buf.Height,
		"enhance", a.opts.Prepare.Enhance, "duration", time.Since(start))

	return a.AnalyzeBuffer(ctx, buf, k)
}

// AnalyzeBuffer analyzes an already prepared pixel buffer.
func (a *Analyzer) AnalyzeBuffer(ctx context.Context, buf *imaging.PixelBuffer, k int) (*Result, error) {
	start := time.Now()

	ext, err := a.extractor.Extract(ctx, buf, k)
	if err != nil {
		return nil, fmt.Errorf("extracting palette: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	samples := a.locator.Locate(ctx, ext)
	if samples == nil {
		samples = []sampling.Sample{}
	}

	a.logger.Info("analyzed image",
		"width", ext.Width, "height", ext.Height, "k", k,
		"colors", len(ext.Palette), "samples", len(samples),
		"duration", time.Since(start))

	return &Result{
		Width:   ext.Width,
		Height:  ext.Height,
		Palette: ext.Palette,
		Samples: samples,
	}, nil
}

// Name returns the nearest named color for a hex string.
func (a *Analyzer) Name(hex string) (names.Match, error) {
	return a.names.FindNearest(hex)
}
