package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ArnaudCalmettes/landslide/imp"
	"github.com/ArnaudCalmettes/landslide/infer"
	"github.com/rs/zerolog/log"
)

// SegmentedSuffix is appended to the base name of every segmented image.
const SegmentedSuffix = "_Seg.jpg"

// SegmentedName returns the name a segmentation mask is saved under.
func SegmentedName(input string) string {
	return baseName(input) + SegmentedSuffix
}

// Segment runs the model on every test image and saves the resulting bare
// ground masks (black on white), at the resolution of the source images.
// Files are processed one at a time, in name order.
//
// The run stops on the first failing file. Files written before that are
// left in place. rec may be nil.
func Segment(ctx context.Context, p SegmentParams, model infer.Model, rec Recorder) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if model == nil {
		return fmt.Errorf("no model to run")
	}
	logger := log.Ctx(ctx)
	rec = syncRecorder(rec)

	paths, err := ListImages(p.TestDir, p.Extension)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return &EmptyCorpusError{Dir: p.TestDir, Extension: p.Extension}
	}
	if err := os.MkdirAll(p.OutputDir, 0755); err != nil {
		return err
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		e, err := segmentFile(ctx, path, model, p.InputSize, p.OutputDir)
		if err != nil {
			return &Error{Path: path, Err: err}
		}
		logger.Info().Str("file", path).Str("output", e.Output).Float64("bare", e.BareFraction).Msg("segmented")
		if err := rec.Record(e); err != nil {
			return err
		}
	}
	return nil
}

func segmentFile(ctx context.Context, path string, model infer.Model, size Size, outDir string) (Entry, error) {
	img, err := imp.ReadFile(path, imp.Color)
	if err != nil {
		return Entry{}, err
	}
	bounds := img.Bounds()

	resized, err := imp.ResizeNearest(img, size.Width, size.Height)
	if err != nil {
		return Entry{}, err
	}
	probs, err := model.Infer(ctx, infer.FromImage(resized))
	if err != nil {
		return Entry{}, fmt.Errorf("inference failed: %w", err)
	}
	if probs == nil {
		return Entry{}, fmt.Errorf("inference returned no tensor")
	}
	if h, w, _, err := probs.Spatial(); err != nil {
		return Entry{}, err
	} else if h != size.Height || w != size.Width {
		return Entry{}, fmt.Errorf("model output is %dx%d, want %dx%d", h, w, size.Height, size.Width)
	}
	log.Ctx(ctx).Debug().Str("file", path).Ints("shape", probs.Shape).Msg("inference done")

	mask, err := imp.DecodeMask(probs)
	if err != nil {
		return Entry{}, err
	}
	mask, err = imp.ResizeMask(mask, bounds.Dx(), bounds.Dy())
	if err != nil {
		return Entry{}, err
	}

	output := filepath.Join(outDir, SegmentedName(path))
	if err := imp.Save(output, mask); err != nil {
		return Entry{}, err
	}
	return Entry{Input: path, Output: output, BareFraction: imp.BareFraction(mask)}, nil
}
