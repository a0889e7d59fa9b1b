package infer

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 51, 255})
	img.SetNRGBA(1, 0, color.NRGBA{0, 255, 102, 255})

	batch := FromImage(img)
	require.Equal(t, []int{1, 1, 2, 3}, batch.Shape)
	require.InDeltaSlice(t, []float32{1, 0, 0.2, 0, 1, 0.4}, batch.Data, 1e-6)

	h, w, c, err := batch.Spatial()
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, []int{h, w, c})
}

func TestSpatial(t *testing.T) {
	h, w, c, err := NewTensor(4, 5, 2).Spatial()
	require.NoError(t, err)
	require.Equal(t, []int{4, 5, 2}, []int{h, w, c})

	for _, bad := range []*Tensor{
		NewTensor(2, 4, 5, 2),
		NewTensor(4, 5),
		NewTensor(0, 5, 2),
		{Shape: []int{2, 2, 2}, Data: make([]float32, 7)},
	} {
		_, _, _, err := bad.Spatial()
		require.True(t, errors.Is(err, errShape), "%v", bad.Shape)
	}
}

func TestFunc(t *testing.T) {
	var m Model = Func(func(ctx context.Context, batch *Tensor) (*Tensor, error) {
		return NewTensor(batch.Shape[1], batch.Shape[2], 2), nil
	})

	out, err := m.Infer(context.Background(), NewTensor(1, 3, 4, 3))
	require.NoError(t, err)
	require.Equal(t, []int{3, 4, 2}, out.Shape)
}
