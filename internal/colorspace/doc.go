// Package colorspace converts 8-bit sRGB colors to CIE Lab and measures the
// perceptual distance between Lab colors.
//
// Every function in this package is pure: no state, no locking, no errors
// except for hex parsing. The same input always yields bit-for-bit identical
// output, which the palette extractor relies on for reproducible results.
//
// # Conversion Pipeline
//
// RGBToLab follows the usual sRGB route under a D65 white point:
//
//  1. Normalize each channel to 0-1
//  2. Gamma-decode to linear RGB (linear below 0.04045, power 2.4 above)
//  3. Multiply by the sRGB-to-XYZ matrix and divide by the D65 white
//     (0.95047, 1.00000, 1.08883)
//  4. Apply the Lab nonlinearity (cube root above 0.008856, linear below)
//  5. Combine into L (0-100), a and b
//
// # Distance
//
// PerceptualDistance is a simplified approximation of CIEDE2000. It keeps the
// lightness, chroma and hue split with chroma-dependent weights, but omits
// the hue rotation and compensation terms of the full standard. Treat it as a
// ranking and threshold metric, not as a calibrated color-science value.
//
// The weights depend on the chroma of the first argument, so
// PerceptualDistance(a, b) may differ from PerceptualDistance(b, a). DeltaE
// is the symmetric form (the smaller of both directions) and is what palette
// deduplication uses.
package colorspace
