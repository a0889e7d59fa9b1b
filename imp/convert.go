package imp

import (
	"image"

	"github.com/disintegration/imaging"
)

// ToGray converts any image in a grayscale picture of the same size
func ToGray(src image.Image) *image.Gray {
	if dst, ok := src.(*image.Gray); ok {
		return dst
	}

	bounds := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	model := dst.ColorModel()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dst.Set(x-bounds.Min.X, y-bounds.Min.Y, model.Convert(src.At(x, y)))
		}
	}
	return dst
}

// ToColor converts any image in an opaque NRGBA picture of the same size.
// Alpha is dropped: color samples are kept as they are stored, and every
// pixel is made fully opaque.
func ToColor(src image.Image) *image.NRGBA {
	dst := imaging.Clone(src)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

// Copy returns a deep copy of a grayscale or color image. Other image types
// are converted to color.
func Copy(src image.Image) image.Image {
	switch img := src.(type) {
	case *image.Gray:
		dst := image.NewGray(img.Rect)
		for y := 0; y < img.Rect.Dy(); y++ {
			copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], img.Pix[y*img.Stride:])
		}
		return dst
	case *image.NRGBA:
		dst := image.NewNRGBA(img.Rect)
		for y := 0; y < img.Rect.Dy(); y++ {
			copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], img.Pix[y*img.Stride:])
		}
		return dst
	}
	return ToColor(src)
}

// eachSample calls fn for every sample of a grayscale or color image, alpha
// excluded. fn returns the new sample value.
func eachSample(img image.Image, fn func(v uint8) uint8) {
	switch m := img.(type) {
	case *image.Gray:
		w := m.Rect.Dx()
		for y := 0; y < m.Rect.Dy(); y++ {
			row := m.Pix[y*m.Stride : y*m.Stride+w]
			for i, v := range row {
				row[i] = fn(v)
			}
		}
	case *image.NRGBA:
		w := m.Rect.Dx() * 4
		for y := 0; y < m.Rect.Dy(); y++ {
			row := m.Pix[y*m.Stride : y*m.Stride+w]
			for i := 0; i < len(row); i += 4 {
				row[i] = fn(row[i])
				row[i+1] = fn(row[i+1])
				row[i+2] = fn(row[i+2])
			}
		}
	}
}

// samples returns every sample of img (alpha excluded) as float64.
func samples(img image.Image) []float64 {
	var out []float64
	switch m := img.(type) {
	case *image.Gray:
		out = make([]float64, 0, m.Rect.Dx()*m.Rect.Dy())
	case *image.NRGBA:
		out = make([]float64, 0, m.Rect.Dx()*m.Rect.Dy()*3)
	default:
		img = ToColor(img)
	}
	eachSample(img, func(v uint8) uint8 {
		out = append(out, float64(v))
		return v
	})
	return out
}
