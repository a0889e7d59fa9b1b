package imp

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func uniformGray(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func gradientGray(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7)
	}
	return img
}

func TestSaveAndReadBack(t *testing.T) {
	dir := t.TempDir()
	src := gradientGray(5, 4)

	for _, ext := range []string{".png", ".bmp", ".tif", ".PNG"} {
		path := filepath.Join(dir, "img"+ext)
		require.NoError(t, Save(path, src), ext)

		img, err := ReadFile(path, Grayscale)
		require.NoError(t, err, ext)
		gray, ok := img.(*image.Gray)
		require.True(t, ok, ext)
		require.Equal(t, src.Pix, gray.Pix, ext)
	}
}

func TestReadColor(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{10, 20, 30, 255})
	src.SetNRGBA(1, 0, color.NRGBA{200, 100, 50, 0})

	path := filepath.Join(t.TempDir(), "color.png")
	require.NoError(t, Save(path, src))

	img, err := ReadFile(path, Color)
	require.NoError(t, err)
	rgb, ok := img.(*image.NRGBA)
	require.True(t, ok)
	require.Equal(t, color.NRGBA{10, 20, 30, 255}, rgb.NRGBAAt(0, 0))
	require.Equal(t, uint8(255), rgb.NRGBAAt(1, 0).A)

	gray, err := ReadFile(path, Grayscale)
	require.NoError(t, err)
	require.IsType(t, &image.Gray{}, gray)
	require.Equal(t, image.Rect(0, 0, 2, 1), gray.Bounds())
}

func TestReadCorrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a png"), 0644))

	_, err := ReadFile(path, Grayscale)
	var derr *DecodeError
	require.True(t, errors.As(err, &derr))
	require.Equal(t, path, derr.Path)

	_, err = ReadBytes(nil, Color)
	require.True(t, errors.As(err, &derr))
}

func TestSaveUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.xyz")

	err := Save(path, gradientGray(2, 2))
	var eerr *EncodeError
	require.True(t, errors.As(err, &eerr))
	require.Equal(t, ".xyz", eerr.Ext)

	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err), "nothing should be written on failure")
}

func TestSaveEmptyImage(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "empty.png"), image.NewGray(image.Rect(0, 0, 0, 0)))
	var eerr *EncodeError
	require.True(t, errors.As(err, &eerr))
}

func TestToGraySubImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	sub := src.SubImage(image.Rect(1, 1, 3, 3))

	gray := ToGray(sub)
	require.Equal(t, image.Rect(0, 0, 2, 2), gray.Bounds())
	require.Equal(t, []uint8{255, 255, 255, 255}, gray.Pix)
}
