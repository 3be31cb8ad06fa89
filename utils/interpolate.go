// SPDX-License-Identifier: EPL-2.0

package utils

// Clamp limits v to [lo, hi]. NaN is mapped to lo so that a bad value never
// reaches an oscillator or a gain stage.
func Clamp(v, lo, hi float64) float64 {
	if v != v {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp returns the point at fraction x (0 <= x <= 1) between a and b.
func Lerp(a, b, x float64) float64 {
	return a + (b-a)*x
}

// CubicInterpolate performs Catmull-Rom interpolation.
// x is the fractional position between y1 and y2 (0 <= x <= 1);
// y0..y3 are four consecutive samples.
func CubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	a3 := y1

	return ((a0*x+a1)*x+a2)*x + a3
}
