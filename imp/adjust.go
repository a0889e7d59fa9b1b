package imp

import (
	"image"
)

// Epsilon keeps Normalize away from a division by zero on flat images.
const Epsilon = 1e-8

// Normalize returns a copy of src whose intensities are shifted and scaled
// so that an image with statistics from ends up with statistics to:
//
//	out = (in - from.Mean) / (from.StdDev + Epsilon) * to.StdDev + to.Mean
//
// The arithmetic is carried out in float32, one rounding per operation.
// Results are clamped to [0, 255], then truncated.
func Normalize(src image.Image, from, to Stats) image.Image {
	dst := Copy(src)
	mean := float32(from.Mean)
	div := float32(from.StdDev + Epsilon)
	std, shift := float32(to.StdDev), float32(to.Mean)

	eachSample(dst, func(v uint8) uint8 {
		x := float32(float32(v) - mean)
		x = float32(x / div)
		x = float32(x * std)
		return clamp(float32(x + shift))
	})
	return dst
}

func clamp(v float32) uint8 {
	switch {
	case v != v: // NaN
		return 0
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
