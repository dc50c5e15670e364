package types

import "math"

const floatCmpEpsilon = 1e-6

// Check whether two vectors are equal within the given per-component tolerance.
func ApproxEqual(v1, v2 Vec3, threshold float32) bool {
	for i := 0; i < 3; i++ {
		if Abs(v1[i]-v2[i]) > threshold {
			return false
		}
	}
	return true
}

// Check whether two scalars are equal within the given tolerance.
func ApproxEqualf(a, b, threshold float32) bool {
	return Abs(a-b) <= threshold
}

func Abs(f float32) float32 {
	return float32(math.Abs(float64(f)))
}

func Sqrt(f float32) float32 {
	return float32(math.Sqrt(float64(f)))
}

func Pow(f, e float32) float32 {
	return float32(math.Pow(float64(f), float64(e)))
}

func Exp(f float32) float32 {
	return float32(math.Exp(float64(f)))
}

func Sin(f float32) float32 {
	return float32(math.Sin(float64(f)))
}

// Clamp f to the [lo, hi] range.
func Clamp(f, lo, hi float32) float32 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}

// Linear interpolation between a and b.
func Mix(a, b, t float32) float32 {
	return a*(1-t) + b*t
}
