package board

import "golang.org/x/exp/constraints"

// Number is any type Remap and Clamp can operate on.
type Number interface {
	constraints.Integer | constraints.Float
}

// Remap linearly maps value from the range [inMin, inMax] to the range
// [outMin, outMax]. The output range may be inverted (outMin > outMax). The
// result is not clamped: values outside the input range map outside the
// output range. An empty input range returns outMin.
//
// For integer types the multiplication is done before the division, and the
// quotient is truncated. This can differ by one from scaling with a floating
// point factor first; use a float type where that matters.
func Remap[T Number](value, inMin, inMax, outMin, outMax T) T {
	if inMax == inMin {
		return outMin
	}
	if outMax < outMin {
		// Keep the intermediate product non-negative for unsigned types.
		return outMin - (value-inMin)*(outMin-outMax)/(inMax-inMin)
	}
	return outMin + (value-inMin)*(outMax-outMin)/(inMax-inMin)
}

// Clamp limits value to [low, high].
func Clamp[T Number](value, low, high T) T {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

// Map and clamp an input value to an output range.
func remapClamp(value, lowIn, highIn, lowOut, highOut int) int {
	lo, hi := lowOut, highOut
	if lo > hi {
		lo, hi = hi, lo
	}
	return Clamp(Remap(value, lowIn, highIn, lowOut, highOut), lo, hi)
}
