package imp

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	// Extra decoders, registered for image.Decode
	_ "golang.org/x/image/webp"
)

// Mode tells the decoder which layout the caller wants back.
type Mode int

const (
	// Grayscale decodes to a single channel *image.Gray.
	Grayscale Mode = iota
	// Color decodes to a 3 channel (opaque) *image.NRGBA.
	Color
)

// JPEGQuality is the quality used when saving ".jpg" files.
var JPEGQuality = 100

// DecodeError is returned when some bytes can't be decoded as an image.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("couldn't decode image: %v", e.Err)
	}
	return fmt.Sprintf("couldn't decode image %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError is returned when an image can't be encoded into the format
// asked for by the destination's extension.
type EncodeError struct {
	Path string
	Ext  string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("couldn't encode %s (%q): %v", e.Path, e.Ext, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// ReadFile reads an image from a file.
func ReadFile(filename string, mode Mode) (image.Image, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	img, err := ReadBytes(data, mode)
	if err != nil {
		if derr, ok := err.(*DecodeError); ok {
			derr.Path = filename
		}
		return nil, err
	}
	return img, nil
}

// ReadBytes reads an image from raw bytes.
func ReadBytes(data []byte, mode Mode) (image.Image, error) {
	return Read(bytes.NewReader(data), mode)
}

// Read reads an image from a io.Reader.
func Read(r io.Reader, mode Mode) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if mode == Grayscale {
		return ToGray(img), nil
	}
	return ToColor(img), nil
}

// Encode writes an image to w, in the format matching ext (".png", ".jpg"...)
func Encode(w io.Writer, ext string, img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("empty image")
	}

	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case ".gif":
		return gif.Encode(w, img, nil)
	}

	return fmt.Errorf("unknown extention %v", ext)
}

// Save writes an image to a file. Image format is decided based upon its
// extention. The image is fully encoded before the file gets created, so a
// failed encoding doesn't leave anything behind.
func Save(filename string, img image.Image) error {
	ext := filepath.Ext(filename)

	var b bytes.Buffer
	if err := Encode(&b, ext, img); err != nil {
		return &EncodeError{Path: filename, Ext: ext, Err: err}
	}
	return os.WriteFile(filename, b.Bytes(), 0644)
}
