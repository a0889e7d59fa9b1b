package imp

import (
	"image"
)

// SuppressBelow returns a copy of src where every sample strictly lower than
// level is set to 0 (black). Other samples are left untouched. Color images
// are compared channel by channel.
func SuppressBelow(src image.Image, level int) image.Image {
	dst := Copy(src)
	if level <= 0 {
		return dst
	}

	eachSample(dst, func(v uint8) uint8 {
		if int(v) < level {
			return 0
		}
		return v
	})
	return dst
}
