package imaging

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/disintegration/imaging"
)

// DefaultMaxDimension is the longest side, in pixels, kept by Prepare.
const DefaultMaxDimension = 1280

// Enhancement factors. Each step blends the image away from a degenerate
// version of itself: black for brightness, the mean luma for contrast and
// the per-pixel luma for saturation.
const (
	brightnessFactor float32 = 1.15
	contrastFactor   float32 = 1.2
	saturationFactor float32 = 1.3
)

// PrepareOptions controls Prepare.
type PrepareOptions struct {
	// MaxDimension caps the longest side. Zero or negative disables resizing.
	MaxDimension int
	// Enhance boosts brightness, contrast and saturation after resizing.
	Enhance bool
}

// DefaultPrepareOptions returns the options used for uploads.
func DefaultPrepareOptions() PrepareOptions {
	return PrepareOptions{
		MaxDimension: DefaultMaxDimension,
		Enhance:      true,
	}
}

// Prepare converts img into the pixel buffer that palette extraction runs on.
//
// Steps, in order:
//  1. Drop alpha.
//  2. If the longest side exceeds MaxDimension, fit the image inside a
//     MaxDimension square with a Lanczos filter (aspect ratio kept).
//  3. If Enhance is set, apply Enhance.
func Prepare(img image.Image, opts PrepareOptions) *PixelBuffer {
	var work image.Image = FromImage(img).ToImage()

	b := work.Bounds()
	if opts.MaxDimension > 0 && max(b.Dx(), b.Dy()) > opts.MaxDimension {
		work = imaging.Fit(work, opts.MaxDimension, opts.MaxDimension, imaging.Lanczos)
	}

	if opts.Enhance {
		work = Enhance(work)
	}

	return FromImage(work)
}

// Enhance brightens by 15%, raises contrast by 20% and saturation by 30%.
//
// The steps run in that order and each one blends every channel v away from
// a base value b as b + factor*(v-b), truncated and clamped to 0..255:
//
//   - Brightness: b is 0.
//   - Contrast: b is the mean luma of the whole image, rounded.
//   - Saturation: b is the luma of the pixel itself.
//
// Neutral grays keep their hue through all three steps.
func Enhance(img image.Image) image.Image {
	out := adjust.Apply(img, func(c color.RGBA) color.RGBA {
		return blendRGBA(c, 0, brightnessFactor)
	})

	mean := meanLuma(out)
	out = adjust.Apply(out, func(c color.RGBA) color.RGBA {
		return blendRGBA(c, mean, contrastFactor)
	})

	return adjust.Apply(out, func(c color.RGBA) color.RGBA {
		return blendRGBA(c, float32(luma(c.R, c.G, c.B)), saturationFactor)
	})
}

func blendRGBA(c color.RGBA, base, factor float32) color.RGBA {
	return color.RGBA{
		R: blend(base, c.R, factor),
		G: blend(base, c.G, factor),
		B: blend(base, c.B, factor),
		A: c.A,
	}
}

// blend computes base + factor*(v-base) in single precision.
func blend(base float32, v uint8, factor float32) uint8 {
	// The conversion keeps the multiply from fusing with the add.
	t := base + float32(factor*(float32(v)-base))
	switch {
	case t <= 0:
		return 0
	case t >= 255:
		return 255
	default:
		return uint8(t)
	}
}

// luma is the ITU-R 601 weighted gray value in 16-bit fixed point.
func luma(r, g, b uint8) uint8 {
	return uint8((uint32(r)*19595 + uint32(g)*38470 + uint32(b)*7471 + 0x8000) >> 16)
}

// meanLuma returns the average luma of img rounded to the nearest integer.
func meanLuma(img *image.RGBA) float32 {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return 0
	}

	var sum uint64
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < b.Dx(); x++ {
			i := x * 4
			sum += uint64(luma(row[i], row[i+1], row[i+2]))
		}
	}
	return float32(int(float64(sum)/float64(n) + 0.5))
}
