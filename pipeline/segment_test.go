package pipeline

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/ArnaudCalmettes/landslide/imp"
	"github.com/ArnaudCalmettes/landslide/infer"
	"github.com/stretchr/testify/require"
)

func writeColor(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	require.NoError(t, imp.Save(path, img))
}

// Model marking the top-left pixel as bare ground.
func topLeftModel(batches *[]*infer.Tensor) infer.Model {
	return infer.Func(func(ctx context.Context, batch *infer.Tensor) (*infer.Tensor, error) {
		*batches = append(*batches, batch)
		h, w := batch.Shape[1], batch.Shape[2]
		out := infer.NewTensor(1, h, w, 2)
		for p := 0; p < h*w; p++ {
			out.Data[2*p] = 0.8
			out.Data[2*p+1] = 0.2
		}
		out.Data[0], out.Data[1] = 0.1, 0.9
		return out, nil
	})
}

func segmentParams(test, out string) SegmentParams {
	return SegmentParams{
		TestDir:   test,
		Extension: ".png",
		ModelPath: "stub",
		OutputDir: out,
		InputSize: Size{Height: 2, Width: 2, Channels: 3},
	}
}

func isBlack(c color.Color) bool {
	return color.GrayModel.Convert(c).(color.Gray).Y < 128
}

func TestSegment(t *testing.T) {
	test, out := t.TempDir(), filepath.Join(t.TempDir(), "masks")
	writeColor(t, filepath.Join(test, "bar.png"), 4, 4, color.NRGBA{255, 51, 0, 255})
	writeColor(t, filepath.Join(test, "baz.png"), 6, 2, color.NRGBA{0, 0, 255, 255})

	var batches []*infer.Tensor
	rec := &memRecorder{}
	require.NoError(t, Segment(context.Background(), segmentParams(test, out), topLeftModel(&batches), rec))

	require.Len(t, batches, 2)
	require.Equal(t, []int{1, 2, 2, 3}, batches[0].Shape)
	require.InDeltaSlice(t, []float32{1, 0.2, 0}, batches[0].Data[:3], 1e-6)
	require.InDeltaSlice(t, []float32{0, 0, 1}, batches[1].Data[:3], 1e-6)

	require.Len(t, rec.entries, 2)
	require.Equal(t, filepath.Join(out, "bar_Seg.jpg"), rec.entries[0].Output)
	require.InDelta(t, 0.25, rec.entries[0].BareFraction, 1e-12)

	mask, err := imp.ReadFile(filepath.Join(out, "bar_Seg.jpg"), imp.Color)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 4, 4), mask.Bounds())
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			require.Equal(t, x < 2 && y < 2, isBlack(mask.At(x, y)), "pixel %d,%d", x, y)
		}
	}

	mask, err = imp.ReadFile(filepath.Join(out, "baz_Seg.jpg"), imp.Color)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 6, 2), mask.Bounds())
	require.True(t, isBlack(mask.At(0, 0)))
	require.False(t, isBlack(mask.At(5, 1)))
}

func TestSegmentedName(t *testing.T) {
	require.Equal(t, "bar_Seg.jpg", SegmentedName("bar.png"))
	require.Equal(t, "bar.tile_Seg.jpg", SegmentedName("/x/bar.tile.tif"))
}

func TestSegmentModelFailure(t *testing.T) {
	test, out := t.TempDir(), t.TempDir()
	writeColor(t, filepath.Join(test, "a.png"), 2, 2, color.NRGBA{1, 2, 3, 255})
	writeColor(t, filepath.Join(test, "b.png"), 2, 2, color.NRGBA{1, 2, 3, 255})

	boom := errors.New("boom")
	model := infer.Func(func(ctx context.Context, batch *infer.Tensor) (*infer.Tensor, error) {
		return nil, boom
	})

	err := Segment(context.Background(), segmentParams(test, out), model, nil)
	var perr *Error
	require.True(t, errors.As(err, &perr))
	require.Equal(t, filepath.Join(test, "a.png"), perr.Path)
	require.True(t, errors.Is(err, boom))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestSegmentWrongOutputSize(t *testing.T) {
	test, out := t.TempDir(), t.TempDir()
	writeColor(t, filepath.Join(test, "a.png"), 2, 2, color.NRGBA{1, 2, 3, 255})

	model := infer.Func(func(ctx context.Context, batch *infer.Tensor) (*infer.Tensor, error) {
		return infer.NewTensor(1, 3, 3, 2), nil
	})

	err := Segment(context.Background(), segmentParams(test, out), model, nil)
	var perr *Error
	require.True(t, errors.As(err, &perr))
}

func TestSegmentInvalid(t *testing.T) {
	test, out := t.TempDir(), t.TempDir()

	var batches []*infer.Tensor
	err := Segment(context.Background(), segmentParams(test, out), topLeftModel(&batches), nil)
	require.True(t, errors.Is(err, ErrEmptyCorpus))

	require.Error(t, Segment(context.Background(), segmentParams(test, out), nil, nil))

	p := segmentParams(test, out)
	p.InputSize.Channels = 1
	require.Error(t, Segment(context.Background(), p, topLeftModel(&batches), nil))
}
