// Package infer holds the tensors exchanged with a segmentation model, and
// the interface the pipelines use to run one.
package infer

import (
	"context"
	"errors"
	"fmt"
	"image"
)

// BareGround is the class index of bare ground in the model's output.
const BareGround = 1

var errShape = errors.New("tensor shape mismatch")

// A Tensor is a dense, row-major array of float32 values.
// Images are laid out in NHWC order.
type Tensor struct {
	Shape []int
	Data  []float32
}

// NewTensor allocates a zeroed tensor of the given shape.
func NewTensor(shape ...int) *Tensor {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return &Tensor{Shape: append([]int(nil), shape...), Data: make([]float32, n)}
}

// Spatial returns the height, width and depth of a (H, W, C) tensor, or of a
// (1, H, W, C) batch holding a single image.
func (t *Tensor) Spatial() (h, w, c int, err error) {
	shape := t.Shape
	if len(shape) == 4 {
		if shape[0] != 1 {
			return 0, 0, 0, fmt.Errorf("%w: batch of %d, want 1", errShape, shape[0])
		}
		shape = shape[1:]
	}
	if len(shape) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %v is not (H, W, C) nor (1, H, W, C)", errShape, t.Shape)
	}
	h, w, c = shape[0], shape[1], shape[2]
	if h <= 0 || w <= 0 || c <= 0 {
		return 0, 0, 0, fmt.Errorf("%w: %v has an empty dimension", errShape, t.Shape)
	}
	if len(t.Data) != h*w*c {
		return 0, 0, 0, fmt.Errorf("%w: %v needs %d values, got %d", errShape, t.Shape, h*w*c, len(t.Data))
	}
	return h, w, c, nil
}

// FromImage builds a (1, H, W, 3) batch from an image, with RGB samples
// scaled to [0, 1].
func FromImage(img image.Image) *Tensor {
	b := img.Bounds()
	h, w := b.Dy(), b.Dx()
	t := NewTensor(1, h, w, 3)

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			t.Data[i] = float32(r>>8) / 255
			t.Data[i+1] = float32(g>>8) / 255
			t.Data[i+2] = float32(bl>>8) / 255
			i += 3
		}
	}
	return t
}

// A Model turns an image batch into a per-pixel class probability tensor.
type Model interface {
	Infer(ctx context.Context, batch *Tensor) (*Tensor, error)
}

// Func adapts an ordinary function into a Model.
type Func func(ctx context.Context, batch *Tensor) (*Tensor, error)

// Infer calls f(ctx, batch).
func (f Func) Infer(ctx context.Context, batch *Tensor) (*Tensor, error) {
	return f(ctx, batch)
}
