package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/afalcongonzalez/chromaviews/internal/analyzer"
	"github.com/afalcongonzalez/chromaviews/internal/colorspace"
	"github.com/afalcongonzalez/chromaviews/internal/imaging"
	"github.com/afalcongonzalez/chromaviews/internal/names"
	"github.com/afalcongonzalez/chromaviews/internal/palette"
)

// outputFormat is a flag value restricted to text or json.
type outputFormat string

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
)

var _ pflag.Value = (*outputFormat)(nil)

func (f *outputFormat) String() string { return string(*f) }

func (f *outputFormat) Set(s string) error {
	switch v := outputFormat(strings.ToLower(s)); v {
	case formatText, formatJSON:
		*f = v
		return nil
	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", s, formatText, formatJSON)
	}
}

func (f *outputFormat) Type() string { return "format" }

type analyzeOptions struct {
	k            int
	format       outputFormat
	overlay      string
	radius       int
	noEnhance    bool
	maxDimension int
}

func newAnalyzeCmd(e *env) *cobra.Command {
	o := analyzeOptions{format: formatText}

	cmd := &cobra.Command{
		Use:   "analyze <image>",
		Short: "Extract the named color palette of an image",
		Long: `Extract the dominant colors of an image with k-means clustering in
RGB space, merge near-duplicates and name each color.

Supported image formats: JPEG, PNG, GIF, WebP

Examples:
  # Palette with the default 8 clusters
  chromaviews analyze photo.jpg

  # Fewer clusters, JSON output
  chromaviews analyze -k 4 --format json photo.jpg

  # Save a copy of the image with numbered sample markers
  chromaviews analyze --overlay marked.png photo.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, e, o, args[0])
		},
	}

	cmd.Flags().IntVarP(&o.k, "clusters", "k", 0, fmt.Sprintf("number of clusters (%d-%d, default DEFAULT_K or %d)", palette.MinK, palette.MaxK, palette.DefaultK))
	cmd.Flags().VarP(&o.format, "format", "f", "output format (text, json)")
	cmd.Flags().StringVarP(&o.overlay, "overlay", "o", "", "write the image with sample markers to this file")
	cmd.Flags().IntVar(&o.radius, "radius", imaging.DefaultMarkerRadius, "marker radius in pixels for --overlay")
	cmd.Flags().BoolVar(&o.noEnhance, "no-enhance", false, "skip the brightness, contrast and saturation boost")
	cmd.Flags().IntVar(&o.maxDimension, "max-dimension", 0, "downscale so the longest side is at most this many pixels (default MAX_DIMENSION)")
	return cmd
}

func runAnalyze(cmd *cobra.Command, e *env, o analyzeOptions, path string) error {
	k := o.k
	if !cmd.Flags().Changed("clusters") {
		k = e.cfg.DefaultK
	}
	if err := palette.ValidateK(k); err != nil {
		return err
	}

	prepare := e.cfg.PrepareOptions()
	if o.noEnhance {
		prepare.Enhance = false
	}
	if cmd.Flags().Changed("max-dimension") {
		prepare.MaxDimension = o.maxDimension
	}

	a, err := e.analyzer(prepare)
	if err != nil {
		return err
	}

	img, format, err := imaging.Open(path)
	if err != nil {
		return err
	}
	e.logger.Debug("loaded image", "path", path, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	buf := imaging.Prepare(img, prepare)
	res, err := a.With("path", path).AnalyzeBuffer(cmd.Context(), buf, k)
	if err != nil {
		return fmt.Errorf("failed to analyze %s: %w", path, err)
	}

	if o.overlay != "" {
		if err := imaging.SaveImage(imaging.Overlay(buf, res.Markers(), o.radius), o.overlay); err != nil {
			return err
		}
		e.logger.Info("wrote overlay", "path", o.overlay, "markers", len(res.Samples))
	}

	out := cmd.OutOrStdout()
	if o.format == formatJSON {
		return writeJSON(out, res)
	}
	printResult(out, res, useColor(out))
	return nil
}

func newNameCmd(e *env) *cobra.Command {
	format := formatText

	cmd := &cobra.Command{
		Use:   "name <hex>",
		Short: "Find the nearest named color for a hex value",
		Example: `  chromaviews name 4682B4
  chromaviews name '#ffdb58' --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := e.database()
			if err != nil {
				return fmt.Errorf("failed to load color names: %w", err)
			}
			m, err := db.FindNearest(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == formatJSON {
				return writeJSON(out, m)
			}
			rgb, _ := colorspace.ParseHex(args[0])
			printMatch(out, rgb, m, useColor(out))
			return nil
		},
	}

	cmd.Flags().VarP(&format, "format", "f", "output format (text, json)")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printResult(w io.Writer, res *analyzer.Result, color bool) {
	fmt.Fprintf(w, "Image: %dx%d, %d colors, %d samples\n\n", res.Width, res.Height, len(res.Palette), len(res.Samples))

	for _, p := range res.Palette {
		fmt.Fprintf(w, "%s %s %6.2f%%  %s\n", swatch(p.Color(), color), p.Hex, p.Percent, p.Name)
		for _, s := range res.Samples {
			if s.Hex == p.Hex {
				fmt.Fprintf(w, "          sample at (%d, %d)\n", s.X, s.Y)
			}
		}
	}
}

func printMatch(w io.Writer, rgb colorspace.RGB, m names.Match, color bool) {
	fmt.Fprintf(w, "%s %s  ΔE %.2f\n", swatch(rgb, color), m.Display(), m.DeltaE)
}
