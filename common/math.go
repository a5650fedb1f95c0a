package common

import "math"

// FixedStep is the simulation tick in seconds.
const FixedStep = 1.0 / 60.0

const epsilon = 1e-9

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Approx reports whether a and b differ by less than a small tolerance.
func Approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
