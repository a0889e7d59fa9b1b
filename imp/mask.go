package imp

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ArnaudCalmettes/landslide/infer"
)

var (
	// Black marks bare ground in a mask.
	Black = color.NRGBA{0, 0, 0, 255}
	// White marks everything else.
	White = color.NRGBA{255, 255, 255, 255}
)

// Argmax returns, for each pixel of a probability tensor, the index of the
// most likely class. Ties go to the lowest index.
func Argmax(t *infer.Tensor) (classes []int, h, w int, err error) {
	h, w, c, err := t.Spatial()
	if err != nil {
		return nil, 0, 0, err
	}
	if c < 2 {
		return nil, 0, 0, fmt.Errorf("need at least 2 classes, got %d", c)
	}

	classes = make([]int, h*w)
	for p := range classes {
		probs := t.Data[p*c : (p+1)*c]
		best := 0
		for k := 1; k < c; k++ {
			if probs[k] > probs[best] {
				best = k
			}
		}
		classes[p] = best
	}
	return classes, h, w, nil
}

// DecodeMask turns a (H, W, C) probability tensor into a H x W mask where
// bare ground pixels are black and every other pixel is white.
func DecodeMask(t *infer.Tensor) (*image.NRGBA, error) {
	classes, h, w, err := Argmax(t)
	if err != nil {
		return nil, err
	}

	mask := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range mask.Pix {
		mask.Pix[i] = 0xff
	}
	for p, class := range classes {
		if class == infer.BareGround {
			mask.SetNRGBA(p%w, p/w, Black)
		}
	}
	return mask, nil
}

// ResizeMask scales a mask to width x height without introducing any color
// other than the ones already present.
func ResizeMask(mask image.Image, width, height int) (*image.NRGBA, error) {
	return ResizeNearest(mask, width, height)
}

// BareFraction returns the share of black pixels in a mask.
func BareFraction(mask *image.NRGBA) float64 {
	b := mask.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 0
	}

	bare := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.NRGBAAt(x, y) == Black {
				bare++
			}
		}
	}
	return float64(bare) / float64(total)
}
