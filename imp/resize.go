package imp

import (
	"fmt"
	"image"
)

// ResizeNearest resizes img to exactly width x height pixels using nearest
// neighbor sampling, so no new intensity values are ever introduced.
//
// Destination pixel x takes source pixel floor(x * srcWidth / width), the
// convention of OpenCV's INTER_NEAREST (same for rows).
func ResizeNearest(img image.Image, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("can't resize an empty image")
	}

	src, ok := img.(*image.NRGBA)
	if !ok {
		src = ToColor(img)
	}
	sw, sh := src.Rect.Dx(), src.Rect.Dy()

	xs := nearestIndices(sw, width)
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y, sy := range nearestIndices(sh, height) {
		srow := src.Pix[sy*src.Stride:]
		drow := dst.Pix[y*dst.Stride:]
		for x, sx := range xs {
			copy(drow[x*4:x*4+4], srow[sx*4:sx*4+4])
		}
	}
	return dst, nil
}

// Source index of every destination index, along one axis.
func nearestIndices(src, dst int) []int {
	scale := float64(src) / float64(dst)
	idx := make([]int, dst)
	for i := range idx {
		s := int(float64(i) * scale)
		if s > src-1 {
			s = src - 1
		}
		idx[i] = s
	}
	return idx
}
