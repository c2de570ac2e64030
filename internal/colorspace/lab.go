package colorspace

import (
	"fmt"
	"math"
)

// RGB is an 8-bit sRGB color.
type RGB struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// Hex returns the color as a lowercase "#rrggbb" string.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Array returns the components as [r, g, b], the wire form used by the APIs.
func (c RGB) Array() [3]int {
	return [3]int{int(c.R), int(c.G), int(c.B)}
}

// Lab is a color in CIE L*a*b* space.
//
// L is lightness (0-100). A runs green (negative) to red (positive) and B runs
// blue (negative) to yellow (positive); neither axis is bounded.
type Lab struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// Array returns the components as [L, a, b].
func (c Lab) Array() [3]float64 {
	return [3]float64{c.L, c.A, c.B}
}

// Chroma returns the Euclidean norm of the a and b components.
func (c Lab) Chroma() float64 {
	return math.Sqrt(c.A*c.A + c.B*c.B)
}

// D65 reference white used to normalize XYZ.
const (
	whiteX = 0.95047
	whiteY = 1.00000
	whiteZ = 1.08883
)

const (
	gammaThreshold = 0.04045
	labEpsilon     = 0.008856
	labKappa       = 7.787
)

// RGBToLab converts an 8-bit sRGB color to Lab under a D65 white point.
//
// The conversion is total: every RGB triple maps to exactly one finite Lab
// triple, and repeated calls return identical values.
func RGBToLab(c RGB) Lab {
	r := linearize(float64(c.R) / 255.0)
	g := linearize(float64(c.G) / 255.0)
	b := linearize(float64(c.B) / 255.0)

	x := (r*0.4124564 + g*0.3575761 + b*0.1804375) / whiteX
	y := (r*0.2126729 + g*0.7151522 + b*0.0721750) / whiteY
	z := (r*0.0193339 + g*0.1191920 + b*0.9503041) / whiteZ

	fx := labF(x)
	fy := labF(y)
	fz := labF(z)

	// The matrix rows sum to slightly more than the white point, which puts
	// pure white a few millionths above 100.
	l := math.Max(0, math.Min(100, 116.0*fy-16.0))

	return Lab{
		L: l,
		A: 500.0 * (fx - fy),
		B: 200.0 * (fy - fz),
	}
}

// linearize undoes the sRGB transfer curve for one normalized channel.
func linearize(v float64) float64 {
	if v > gammaThreshold {
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return v / 12.92
}

func labF(t float64) float64 {
	if t > labEpsilon {
		return math.Cbrt(t)
	}
	return labKappa*t + 16.0/116.0
}

// Weighting factors for PerceptualDistance. Lightness is unweighted; the
// chroma and hue weights grow with the chroma of the first color.
const (
	weightL           = 1.0
	chromaWeightSlope = 0.045
	hueWeightSlope    = 0.015
)

// PerceptualDistance returns a simplified CIEDE2000-style difference between
// two Lab colors.
//
// The result is the root-sum-square of:
//   - dl: lightness difference (weight 1)
//   - dc: chroma difference, weighted by 1 + 0.045*c1
//   - dh: hue difference sqrt(max(0, da²+db²-dc²)), weighted by 1 + 0.015*c1
//
// c1 is the chroma of lab1, so the function is not symmetric in its
// arguments. The hue term is clamped at zero because floating-point
// cancellation can push da²+db²-dc² slightly negative.
func PerceptualDistance(lab1, lab2 Lab) float64 {
	c1 := lab1.Chroma()
	c2 := lab2.Chroma()

	dl := lab1.L - lab2.L
	dc := c1 - c2
	da := lab1.A - lab2.A
	db := lab1.B - lab2.B

	dh := 0.0
	if dhSq := da*da + db*db - dc*dc; dhSq > 0 {
		dh = math.Sqrt(dhSq)
	}

	sc := 1.0 + chromaWeightSlope*c1
	sh := 1.0 + hueWeightSlope*c1

	tl := dl / weightL
	tc := dc / sc
	th := dh / sh

	return math.Sqrt(tl*tl + tc*tc + th*th)
}

// DeltaE is the symmetric form of PerceptualDistance: the smaller of the two
// argument orders. Two colors with DeltaE below a threshold are within that
// threshold whichever one is taken as the reference.
func DeltaE(lab1, lab2 Lab) float64 {
	return math.Min(PerceptualDistance(lab1, lab2), PerceptualDistance(lab2, lab1))
}
